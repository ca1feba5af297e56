package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/otabek-dev/tutor_center/cache"
	"github.com/otabek-dev/tutor_center/calendar"
	"github.com/otabek-dev/tutor_center/models"
	"github.com/otabek-dev/tutor_center/repository"
)

const (
	availableLessonsCacheKey = "lessons:available"
	availableLessonsCacheTTL = time.Minute
)

// LessonService owns the lesson state machine: creation, booking, update,
// deletion and the atomic completion archival. It is the only writer of
// lesson rows besides TransactionService's isPaid back-write.
type LessonService struct {
	lessons  repository.LessonRepository
	teachers repository.TeacherRepository
	students repository.StudentRepository
	calendar calendar.Service
	cache    *cache.Service
	now      func() time.Time
}

func NewLessonService(
	lessons repository.LessonRepository,
	teachers repository.TeacherRepository,
	students repository.StudentRepository,
	cal calendar.Service,
	cacheSvc *cache.Service,
) *LessonService {
	return &LessonService{
		lessons:  lessons,
		teachers: teachers,
		students: students,
		calendar: cal,
		cache:    cacheSvc,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Tests use it to pin "now".
func (s *LessonService) WithClock(now func() time.Time) *LessonService {
	s.now = now
	return s
}

type CreateLessonInput struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Price     float64
}

type UpdateLessonInput struct {
	Name      *string
	StartTime *time.Time
	EndTime   *time.Time
	Status    *models.LessonStatus
	Price     *float64
	IsPaid    *bool
}

// Create publishes a new available lesson slot for a teacher. The calendar
// event is created first; if that fails nothing is persisted.
func (s *LessonService) Create(ctx context.Context, teacherID uuid.UUID, in CreateLessonInput) (*models.Lesson, error) {
	if !in.StartTime.Before(in.EndTime) {
		return nil, E(ErrInvalidRange, "end time must be after start time")
	}
	if in.StartTime.Before(s.now()) {
		return nil, E(ErrPastStart, "start time cannot be in the past")
	}
	if in.Price < 0 {
		return nil, E(ErrInvalidRange, "price cannot be negative")
	}

	teacher, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(ErrNotFound, "teacher with ID %s not found", teacherID)
		}
		return nil, err
	}
	if !teacher.CalendarLinked() {
		return nil, E(ErrCalendarNotLinked, "teacher has not connected Google Calendar")
	}

	if _, err := s.lessons.FindByTeacherAndStart(ctx, teacherID, in.StartTime); err == nil {
		return nil, E(ErrConflict, "you already have a lesson at this time")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	event, err := s.calendar.CreateEvent(ctx, teacherCreds(teacher),
		"Lesson: "+in.Name, "Available lesson slot for students to book",
		in.StartTime, in.EndTime)
	if err != nil {
		return nil, s.externalError("failed to create lesson", err)
	}

	lesson := &models.Lesson{
		Name:      in.Name,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Price:     in.Price,
		Status:    models.LessonStatusAvailable,
		TeacherID: teacherID,
	}
	if event.ID != "" {
		lesson.GoogleEventID = &event.ID
	}
	if event.MeetLink != "" {
		lesson.GoogleMeetURL = &event.MeetLink
	}

	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, err
	}
	s.invalidateAvailable(ctx)
	return lesson, nil
}

// Book claims an available lesson for a student. The calendar patch is part
// of the operation: if it fails, the booking fails. The final assignment runs
// serialized in the repository so two concurrent bookings cannot both win.
func (s *LessonService) Book(ctx context.Context, lessonID, studentID uuid.UUID) (*models.Lesson, error) {
	lesson, err := s.lessons.FindWithRelations(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(ErrNotFound, "lesson with ID %s not found", lessonID)
		}
		return nil, err
	}
	if lesson.Status != models.LessonStatusAvailable {
		return nil, E(ErrNotAvailable, "lesson is not available for booking")
	}
	if lesson.StudentID != nil {
		// Unreachable given the status check, kept as a guard.
		return nil, E(ErrAlreadyBooked, "lesson is already booked")
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(ErrNotFound, "student with ID %s not found", studentID)
		}
		return nil, err
	}

	if _, err := s.lessons.FindByStudentAndStart(ctx, studentID, lesson.StartTime); err == nil {
		return nil, E(ErrConflict, "you already have a lesson at this time")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if lesson.GoogleEventID != nil && lesson.Teacher.CalendarLinked() {
		name := student.FirstName
		if student.LastName != nil {
			name += " " + *student.LastName
		}
		desc := "Lesson booked by: " + name
		err := s.calendar.PatchEvent(ctx, teacherCreds(&lesson.Teacher), *lesson.GoogleEventID,
			calendar.EventPatch{Description: &desc})
		if err != nil {
			return nil, s.externalError("failed to book lesson", err)
		}
	}

	booked, err := s.lessons.Book(ctx, lessonID, studentID, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, E(ErrNotFound, "lesson with ID %s not found", lessonID)
		case errors.Is(err, repository.ErrNotAvailable):
			return nil, E(ErrNotAvailable, "lesson is not available for booking")
		case errors.Is(err, repository.ErrConflict):
			return nil, E(ErrConflict, "you already have a lesson at this time")
		}
		return nil, err
	}
	s.invalidateAvailable(ctx)
	return booked, nil
}

// Update applies a partial update. A time change re-validates the range and
// patches the calendar event first; patch failure aborts the update.
func (s *LessonService) Update(ctx context.Context, lessonID uuid.UUID, in UpdateLessonInput) (*models.Lesson, error) {
	lesson, err := s.lessons.FindWithRelations(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(ErrNotFound, "lesson with ID %s not found", lessonID)
		}
		return nil, err
	}

	if in.StartTime != nil || in.EndTime != nil {
		start := lesson.StartTime
		end := lesson.EndTime
		if in.StartTime != nil {
			start = *in.StartTime
		}
		if in.EndTime != nil {
			end = *in.EndTime
		}
		if !start.Before(end) {
			return nil, E(ErrInvalidRange, "end time must be after start time")
		}

		if lesson.GoogleEventID != nil && lesson.Teacher.CalendarLinked() {
			err := s.calendar.PatchEvent(ctx, teacherCreds(&lesson.Teacher), *lesson.GoogleEventID,
				calendar.EventPatch{Start: &start, End: &end})
			if err != nil {
				return nil, s.externalError("failed to update calendar event", err)
			}
		}
		lesson.StartTime = start
		lesson.EndTime = end
	}

	if in.Name != nil {
		lesson.Name = *in.Name
	}
	if in.Status != nil {
		lesson.Status = *in.Status
	}
	if in.Price != nil {
		lesson.Price = *in.Price
	}
	if in.IsPaid != nil {
		lesson.IsPaid = *in.IsPaid
	}

	if err := s.lessons.Save(ctx, lesson); err != nil {
		return nil, err
	}
	s.invalidateAvailable(ctx)
	return lesson, nil
}

// Complete archives a lesson: the history row is inserted and the lesson row
// deleted in a single transaction, so no intermediate state is observable.
func (s *LessonService) Complete(ctx context.Context, teacherID, lessonID uuid.UUID, star *int, feedback *string) (*models.LessonHistory, error) {
	lesson, err := s.lessons.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(ErrNotFound, "lesson not found")
		}
		return nil, err
	}
	if lesson.TeacherID != teacherID {
		return nil, E(ErrForbidden, "you can only complete your own lessons")
	}
	if lesson.Status == models.LessonStatusCompleted {
		return nil, E(ErrAlreadyCompleted, "lesson is already completed")
	}
	if star != nil && (*star < 1 || *star > 5) {
		return nil, E(ErrInvalidRange, "star rating must be between 1 and 5")
	}

	history := &models.LessonHistory{
		LessonID:  lesson.ID,
		Star:      models.DefaultStar,
		Feedback:  models.DefaultFeedback,
		TeacherID: lesson.TeacherID,
		StudentID: lesson.StudentID,
	}
	if star != nil {
		history.Star = *star
	}
	if feedback != nil && *feedback != "" {
		history.Feedback = *feedback
	}

	if err := s.lessons.Archive(ctx, lesson.ID, history); err != nil {
		return nil, err
	}
	s.invalidateAvailable(ctx)
	return history, nil
}

// Delete removes a lesson. Calendar cleanup is best effort: the local record
// must stay removable even when the provider is unreachable, so unlike Book
// and Update a calendar failure here is only logged.
func (s *LessonService) Delete(ctx context.Context, lessonID uuid.UUID) error {
	lesson, err := s.lessons.FindWithRelations(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return E(ErrNotFound, "lesson with ID %s not found", lessonID)
		}
		return err
	}

	if lesson.GoogleEventID != nil && lesson.Teacher.CalendarLinked() {
		err := s.calendar.DeleteEvent(ctx, teacherCreds(&lesson.Teacher), *lesson.GoogleEventID)
		if err != nil {
			log.Printf("🔥 Failed to delete calendar event for lesson %s: %v", lesson.ID, err)
		}
	}

	if err := s.lessons.Delete(ctx, lessonID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return E(ErrNotFound, "lesson with ID %s not found", lessonID)
		}
		return err
	}
	s.invalidateAvailable(ctx)
	return nil
}

// GetAvailable lists open lessons, served from the redis cache when warm.
func (s *LessonService) GetAvailable(ctx context.Context) ([]models.Lesson, error) {
	if s.cache != nil {
		var cached []models.Lesson
		if s.cache.Get(ctx, availableLessonsCacheKey, &cached) {
			return cached, nil
		}
	}

	lessons, err := s.lessons.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, availableLessonsCacheKey, lessons, availableLessonsCacheTTL); err != nil {
			log.Printf("Failed to cache available lessons: %v", err)
		}
	}
	return lessons, nil
}

func (s *LessonService) GetForStudent(ctx context.Context, studentID uuid.UUID) ([]models.Lesson, error) {
	return s.lessons.FindByStudent(ctx, studentID)
}

func (s *LessonService) GetForTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Lesson, error) {
	return s.lessons.FindByTeacher(ctx, teacherID)
}

func (s *LessonService) invalidateAvailable(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, availableLessonsCacheKey); err != nil {
		log.Printf("Failed to invalidate available lessons cache: %v", err)
	}
}

// externalError folds a calendar port failure into the service taxonomy.
func (s *LessonService) externalError(prefix string, err error) error {
	switch {
	case errors.Is(err, calendar.ErrAuthExpired):
		return E(ErrExternalAuthExpired, "Google Calendar authorization expired. Please reconnect.")
	case errors.Is(err, calendar.ErrForbidden):
		return E(ErrExternalForbidden, "insufficient permissions for Google Calendar")
	}
	return E(ErrExternalFailure, "%s: %v", prefix, err)
}

func teacherCreds(t *models.Teacher) calendar.Credentials {
	creds := calendar.Credentials{}
	if t.GoogleAccessToken != nil {
		creds.AccessToken = *t.GoogleAccessToken
	}
	if t.GoogleRefreshToken != nil {
		creds.RefreshToken = *t.GoogleRefreshToken
	}
	return creds
}
