package calendar

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	calendarID = "primary"
	timeZone   = "Asia/Tashkent"
)

// GoogleService talks to Google Calendar with a per-teacher token pair. Every
// call is bounded by a timeout so a provider outage cannot hold a request.
type GoogleService struct {
	config  *oauth2.Config
	timeout time.Duration
}

func NewGoogleService(clientID, clientSecret string) *GoogleService {
	return &GoogleService{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gcalendar.CalendarScope},
		},
		timeout: 10 * time.Second,
	}
}

// client builds a calendar service authenticated as the credential owner.
// Expiry is set to now so the refresh token is always exercised.
func (s *GoogleService) client(ctx context.Context, creds Credentials) (*gcalendar.Service, error) {
	token := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		Expiry:       time.Now(),
	}
	return gcalendar.NewService(ctx, option.WithTokenSource(s.config.TokenSource(ctx, token)))
}

func (s *GoogleService) CreateEvent(ctx context.Context, creds Credentials, title, description string, start, end time.Time) (*Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	srv, err := s.client(ctx, creds)
	if err != nil {
		return nil, classify(err)
	}

	event := &gcalendar.Event{
		Summary:     title,
		Description: description,
		Start:       &gcalendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: timeZone},
		End:         &gcalendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: timeZone},
		ConferenceData: &gcalendar.ConferenceData{
			CreateRequest: &gcalendar.CreateConferenceRequest{
				RequestId:             fmt.Sprintf("%d-%06d", time.Now().UnixNano(), rand.Intn(1000000)),
				ConferenceSolutionKey: &gcalendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
		Reminders: &gcalendar.EventReminders{
			UseDefault: false,
			Overrides: []*gcalendar.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 30},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := srv.Events.Insert(calendarID, event).ConferenceDataVersion(1).Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}
	return &Event{ID: created.Id, MeetLink: created.HangoutLink}, nil
}

func (s *GoogleService) PatchEvent(ctx context.Context, creds Credentials, eventID string, patch EventPatch) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	srv, err := s.client(ctx, creds)
	if err != nil {
		return classify(err)
	}

	event := &gcalendar.Event{}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Start != nil {
		event.Start = &gcalendar.EventDateTime{DateTime: patch.Start.Format(time.RFC3339), TimeZone: timeZone}
	}
	if patch.End != nil {
		event.End = &gcalendar.EventDateTime{DateTime: patch.End.Format(time.RFC3339), TimeZone: timeZone}
	}

	if _, err := srv.Events.Patch(calendarID, eventID, event).Context(ctx).Do(); err != nil {
		return classify(err)
	}
	return nil
}

func (s *GoogleService) DeleteEvent(ctx context.Context, creds Credentials, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	srv, err := s.client(ctx, creds)
	if err != nil {
		return classify(err)
	}
	if err := srv.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps provider errors onto the port's error kinds: 401 means the
// stored token pair is dead, 403 means missing scope, anything else passes
// through for the caller to wrap generically.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401:
			return ErrAuthExpired
		case 403:
			return ErrForbidden
		}
	}
	return err
}
