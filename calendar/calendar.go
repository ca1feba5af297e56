// Package calendar is the external calendar port: creating, patching and
// deleting the event that mirrors a lesson slot. The lifecycle services only
// see the Service interface; the Google implementation lives next to it.
package calendar

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAuthExpired means the teacher's calendar authorization is no longer
	// valid and must be reconnected.
	ErrAuthExpired = errors.New("calendar authorization expired")
	// ErrForbidden means the granted scope does not allow the operation.
	ErrForbidden = errors.New("insufficient calendar permissions")
)

// Credentials is the per-teacher OAuth token pair.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Event is the subset of the provider event the lesson keeps a reference to.
type Event struct {
	ID       string
	MeetLink string
}

// EventPatch carries the fields a patch call may change. Nil fields are left
// untouched on the provider side.
type EventPatch struct {
	Description *string
	Start       *time.Time
	End         *time.Time
}

type Service interface {
	CreateEvent(ctx context.Context, creds Credentials, title, description string, start, end time.Time) (*Event, error)
	PatchEvent(ctx context.Context, creds Credentials, eventID string, patch EventPatch) error
	DeleteEvent(ctx context.Context, creds Credentials, eventID string) error
}
