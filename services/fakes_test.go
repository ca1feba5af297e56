package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/otabek-dev/tutor_center/calendar"
	"github.com/otabek-dev/tutor_center/models"
	"github.com/otabek-dev/tutor_center/repository"
)

// In-memory repository fakes. They mirror the contracts documented on the
// repository interfaces closely enough for the services to be exercised
// without a database.

type fakeLessonRepo struct {
	lessons   map[uuid.UUID]*models.Lesson
	histories []*models.LessonHistory

	saveErr error
	bookErr error
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{lessons: make(map[uuid.UUID]*models.Lesson)}
}

func (r *fakeLessonRepo) put(l *models.Lesson) *models.Lesson {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.lessons[l.ID] = l
	return l
}

func (r *fakeLessonRepo) Create(ctx context.Context, l *models.Lesson) error {
	r.put(l)
	return nil
}

func (r *fakeLessonRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	l, ok := r.lessons[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLessonRepo) Save(ctx context.Context, l *models.Lesson) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.lessons[l.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *l
	r.lessons[l.ID] = &cp
	return nil
}

func (r *fakeLessonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.lessons[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.lessons, id)
	return nil
}

func (r *fakeLessonRepo) FindWithRelations(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeLessonRepo) FindByTeacherAndStart(ctx context.Context, teacherID uuid.UUID, start time.Time) (*models.Lesson, error) {
	for _, l := range r.lessons {
		if l.TeacherID == teacherID && l.StartTime.Equal(start) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeLessonRepo) FindByStudentAndStart(ctx context.Context, studentID uuid.UUID, start time.Time) (*models.Lesson, error) {
	for _, l := range r.lessons {
		if l.StudentID != nil && *l.StudentID == studentID && l.StartTime.Equal(start) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeLessonRepo) FindAvailable(ctx context.Context) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range r.lessons {
		if l.Status == models.LessonStatusAvailable {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) FindByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range r.lessons {
		if l.TeacherID == teacherID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range r.lessons {
		if l.StudentID != nil && *l.StudentID == studentID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) FindStartingBetween(ctx context.Context, from, to time.Time) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range r.lessons {
		if !l.StartTime.Before(from) && !l.StartTime.After(to) {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) Book(ctx context.Context, lessonID, studentID uuid.UUID, bookedAt time.Time) (*models.Lesson, error) {
	if r.bookErr != nil {
		return nil, r.bookErr
	}
	l, ok := r.lessons[lessonID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if l.Status != models.LessonStatusAvailable || l.StudentID != nil {
		return nil, repository.ErrNotAvailable
	}
	for _, other := range r.lessons {
		if other.StudentID != nil && *other.StudentID == studentID && other.StartTime.Equal(l.StartTime) {
			return nil, repository.ErrConflict
		}
	}
	l.StudentID = &studentID
	l.Status = models.LessonStatusBooked
	l.BookedAt = &bookedAt
	cp := *l
	return &cp, nil
}

func (r *fakeLessonRepo) Archive(ctx context.Context, lessonID uuid.UUID, history *models.LessonHistory) error {
	if _, ok := r.lessons[lessonID]; !ok {
		return repository.ErrNotFound
	}
	if history.ID == uuid.Nil {
		history.ID = uuid.New()
	}
	r.histories = append(r.histories, history)
	delete(r.lessons, lessonID)
	return nil
}

type fakeTeacherRepo struct {
	teachers map[uuid.UUID]*models.Teacher
}

func newFakeTeacherRepo() *fakeTeacherRepo {
	return &fakeTeacherRepo{teachers: make(map[uuid.UUID]*models.Teacher)}
}

func (r *fakeTeacherRepo) Create(ctx context.Context, t *models.Teacher) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.teachers[t.ID] = t
	return nil
}

func (r *fakeTeacherRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Teacher, error) {
	t, ok := r.teachers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTeacherRepo) Save(ctx context.Context, t *models.Teacher) error {
	r.teachers[t.ID] = t
	return nil
}

func (r *fakeTeacherRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.teachers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.teachers, id)
	return nil
}

type fakeStudentRepo struct {
	students map[uuid.UUID]*models.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[uuid.UUID]*models.Student)}
}

func (r *fakeStudentRepo) Create(ctx context.Context, s *models.Student) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStudentRepo) Save(ctx context.Context, s *models.Student) error {
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.students[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.students, id)
	return nil
}

type fakeTransactionRepo struct {
	txns map[uuid.UUID]*models.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{txns: make(map[uuid.UUID]*models.Transaction)}
}

func (r *fakeTransactionRepo) Create(ctx context.Context, t *models.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	r.txns[t.ID] = &cp
	return nil
}

func (r *fakeTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	t, ok := r.txns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTransactionRepo) Save(ctx context.Context, t *models.Transaction) error {
	if _, ok := r.txns[t.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *t
	r.txns[t.ID] = &cp
	return nil
}

func (r *fakeTransactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.txns[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.txns, id)
	return nil
}

func (r *fakeTransactionRepo) FindByLesson(ctx context.Context, lessonID uuid.UUID) (*models.Transaction, error) {
	for _, t := range r.txns {
		if t.LessonID == lessonID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeTransactionRepo) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range r.txns {
		if t.StudentID == studentID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindByStatus(ctx context.Context, status models.TransactionStatus) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range r.txns {
		if t.Status == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

// fakeCalendar records calls and fails on demand.
type fakeCalendar struct {
	createErr error
	patchErr  error
	deleteErr error

	createCalls int
	patchCalls  int
	deleteCalls int

	lastDescription string
}

func (c *fakeCalendar) CreateEvent(ctx context.Context, creds calendar.Credentials, title, description string, start, end time.Time) (*calendar.Event, error) {
	c.createCalls++
	if c.createErr != nil {
		return nil, c.createErr
	}
	return &calendar.Event{ID: "evt-" + uuid.NewString()[:8], MeetLink: "https://meet.google.com/abc-defg-hij"}, nil
}

func (c *fakeCalendar) PatchEvent(ctx context.Context, creds calendar.Credentials, eventID string, patch calendar.EventPatch) error {
	c.patchCalls++
	if c.patchErr != nil {
		return c.patchErr
	}
	if patch.Description != nil {
		c.lastDescription = *patch.Description
	}
	return nil
}

func (c *fakeCalendar) DeleteEvent(ctx context.Context, creds calendar.Credentials, eventID string) error {
	c.deleteCalls++
	return c.deleteErr
}

func strPtr(s string) *string { return &s }
