package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/otabek-dev/tutor_center/models"
	"github.com/otabek-dev/tutor_center/repository"
)

var jobNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// stubLessonRepo serves FindStartingBetween from a fixed slice; the reminder
// job touches nothing else on the interface.
type stubLessonRepo struct {
	lessons []models.Lesson
	err     error

	gotFrom time.Time
	gotTo   time.Time
}

func (r *stubLessonRepo) FindStartingBetween(ctx context.Context, from, to time.Time) ([]models.Lesson, error) {
	r.gotFrom, r.gotTo = from, to
	if r.err != nil {
		return nil, r.err
	}
	var out []models.Lesson
	for _, l := range r.lessons {
		if !l.StartTime.Before(from) && !l.StartTime.After(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubLessonRepo) Create(ctx context.Context, l *models.Lesson) error { return nil }
func (r *stubLessonRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	return nil, repository.ErrNotFound
}
func (r *stubLessonRepo) Save(ctx context.Context, l *models.Lesson) error   { return nil }
func (r *stubLessonRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (r *stubLessonRepo) FindWithRelations(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	return nil, repository.ErrNotFound
}
func (r *stubLessonRepo) FindByTeacherAndStart(ctx context.Context, teacherID uuid.UUID, start time.Time) (*models.Lesson, error) {
	return nil, repository.ErrNotFound
}
func (r *stubLessonRepo) FindByStudentAndStart(ctx context.Context, studentID uuid.UUID, start time.Time) (*models.Lesson, error) {
	return nil, repository.ErrNotFound
}
func (r *stubLessonRepo) FindAvailable(ctx context.Context) ([]models.Lesson, error) {
	return nil, nil
}
func (r *stubLessonRepo) FindByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Lesson, error) {
	return nil, nil
}
func (r *stubLessonRepo) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Lesson, error) {
	return nil, nil
}
func (r *stubLessonRepo) Book(ctx context.Context, lessonID, studentID uuid.UUID, bookedAt time.Time) (*models.Lesson, error) {
	return nil, repository.ErrNotFound
}
func (r *stubLessonRepo) Archive(ctx context.Context, lessonID uuid.UUID, history *models.LessonHistory) error {
	return nil
}

type recordingSender struct {
	sent    []sentMessage
	failFor map[string]error
}

type sentMessage struct {
	chatID string
	text   string
}

func (s *recordingSender) Send(ctx context.Context, chatID, text string) error {
	if err, ok := s.failFor[chatID]; ok {
		return err
	}
	s.sent = append(s.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func strPtr(s string) *string { return &s }

func bookedLesson(name string, start time.Time, tgID *string) models.Lesson {
	studentID := uuid.New()
	meet := "https://meet.google.com/abc-defg-hij"
	return models.Lesson{
		ID:            uuid.New(),
		Name:          name,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Status:        models.LessonStatusBooked,
		TeacherID:     uuid.New(),
		StudentID:     &studentID,
		GoogleMeetURL: &meet,
		Student: &models.Student{
			ID:        studentID,
			FirstName: "Bekzod",
			TgID:      tgID,
		},
	}
}

func newTestJob(repo *stubLessonRepo, sender *recordingSender) *ReminderJob {
	return NewReminderJob(repo, sender).WithClock(func() time.Time { return jobNow })
}

func TestReminderJobWindow(t *testing.T) {
	repo := &stubLessonRepo{lessons: []models.Lesson{
		bookedLesson("Too soon", jobNow.Add(5*time.Minute), strPtr("111")),
		bookedLesson("In window", jobNow.Add(20*time.Minute), strPtr("222")),
		bookedLesson("Too late", jobNow.Add(40*time.Minute), strPtr("333")),
	}}
	sender := &recordingSender{}

	newTestJob(repo, sender).Run()

	assert.True(t, repo.gotFrom.Equal(jobNow.Add(15*time.Minute)))
	assert.True(t, repo.gotTo.Equal(jobNow.Add(25*time.Minute)))
	if assert.Len(t, sender.sent, 1) {
		assert.Equal(t, "222", sender.sent[0].chatID)
	}
}

func TestReminderJobSkipsBadRecipients(t *testing.T) {
	noStudent := bookedLesson("No student", jobNow.Add(20*time.Minute), strPtr("444"))
	noStudent.Student = nil

	repo := &stubLessonRepo{lessons: []models.Lesson{
		noStudent,
		bookedLesson("No telegram", jobNow.Add(20*time.Minute), nil),
		bookedLesson("Empty telegram", jobNow.Add(20*time.Minute), strPtr("")),
		bookedLesson("Deliverable", jobNow.Add(20*time.Minute), strPtr("555")),
	}}
	sender := &recordingSender{}

	newTestJob(repo, sender).Run()

	if assert.Len(t, sender.sent, 1) {
		assert.Equal(t, "555", sender.sent[0].chatID)
	}
}

func TestReminderJobContinuesAfterSendFailure(t *testing.T) {
	repo := &stubLessonRepo{lessons: []models.Lesson{
		bookedLesson("Failing", jobNow.Add(16*time.Minute), strPtr("666")),
		bookedLesson("Working", jobNow.Add(20*time.Minute), strPtr("777")),
	}}
	sender := &recordingSender{failFor: map[string]error{"666": errors.New("blocked by user")}}

	newTestJob(repo, sender).Run()

	if assert.Len(t, sender.sent, 1) {
		assert.Equal(t, "777", sender.sent[0].chatID)
	}
}

func TestReminderJobSurvivesQueryFailure(t *testing.T) {
	repo := &stubLessonRepo{err: errors.New("db is down")}
	sender := &recordingSender{}

	assert.NotPanics(t, func() { newTestJob(repo, sender).Run() })
	assert.Empty(t, sender.sent)
}

func TestReminderMessageFormat(t *testing.T) {
	repo := &stubLessonRepo{}
	sender := &recordingSender{}
	job := newTestJob(repo, sender)

	lesson := bookedLesson("English B2", jobNow.Add(20*time.Minute), strPtr("888"))
	msg := job.formatMessage(&lesson)

	assert.Contains(t, msg, "🔔 *Lesson reminder!*")
	assert.Contains(t, msg, "*Lesson:* English B2")
	assert.Contains(t, msg, "https://meet.google.com/abc-defg-hij")

	lesson.GoogleMeetURL = nil
	msg = job.formatMessage(&lesson)
	assert.Contains(t, msg, "*Link:* Online")
}
