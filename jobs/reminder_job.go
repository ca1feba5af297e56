package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/otabek-dev/tutor_center/models"
	"github.com/otabek-dev/tutor_center/notifications"
	"github.com/otabek-dev/tutor_center/repository"
)

const (
	reminderWindowStart = 15 * time.Minute
	reminderWindowEnd   = 25 * time.Minute
)

// ReminderJob is the periodic sweep that warns students shortly before a
// booked lesson starts. Cron fires Run every 10 minutes; with the
// [now+15m, now+25m] window a lesson is visible to one or two ticks, so a
// reminder can arrive twice or be missed near a tick boundary — there is no
// persisted de-duplication marker.
type ReminderJob struct {
	lessons  repository.LessonRepository
	sender   notifications.Sender
	now      func() time.Time
	location *time.Location
}

func NewReminderJob(lessons repository.LessonRepository, sender notifications.Sender) *ReminderJob {
	loc, err := time.LoadLocation("Asia/Tashkent")
	if err != nil {
		loc = time.UTC
	}
	return &ReminderJob{
		lessons:  lessons,
		sender:   sender,
		now:      time.Now,
		location: loc,
	}
}

// WithClock replaces the time source. Tests use it to pin "now".
func (j *ReminderJob) WithClock(now func() time.Time) *ReminderJob {
	j.now = now
	return j
}

// Run executes one sweep. Failures never propagate out of the job: a bad
// recipient or a delivery outage is logged and the sweep moves on.
func (j *ReminderJob) Run() {
	log.Println("Running job: SendLessonReminders...")

	now := j.now()
	windowStart := now.Add(reminderWindowStart)
	windowEnd := now.Add(reminderWindowEnd)
	ctx := context.Background()

	upcoming, err := j.lessons.FindStartingBetween(ctx, windowStart, windowEnd)
	if err != nil {
		log.Printf("🔥 Error checking for upcoming lessons: %v", err)
		return
	}
	if len(upcoming) == 0 {
		return
	}

	for _, lesson := range upcoming {
		if lesson.Student == nil {
			log.Printf("⚠️ Lesson %s has no student assigned, skipping reminder", lesson.ID)
			continue
		}
		if lesson.Student.TgID == nil || *lesson.Student.TgID == "" {
			log.Printf("⚠️ Student %s has no Telegram ID, skipping reminder", lesson.Student.ID)
			continue
		}

		if err := j.sender.Send(ctx, *lesson.Student.TgID, j.formatMessage(&lesson)); err != nil {
			log.Printf("🔥 Failed to send reminder for lesson %s: %v", lesson.ID, err)
			continue
		}
		log.Printf("✅ Reminder sent for lesson %s to student %s", lesson.ID, lesson.Student.ID)
	}
}

func (j *ReminderJob) formatMessage(lesson *models.Lesson) string {
	name := lesson.Name
	if name == "" {
		name = "Lesson"
	}
	link := "Online"
	if lesson.GoogleMeetURL != nil && *lesson.GoogleMeetURL != "" {
		link = *lesson.GoogleMeetURL
	}
	return fmt.Sprintf(
		"🔔 *Lesson reminder!*\n\n📚 *Lesson:* %s\n⏰ *Time:* %s\n📍 *Link:* %s\n\nPlease join on time!",
		name,
		lesson.StartTime.In(j.location).Format("15:04"),
		link,
	)
}
