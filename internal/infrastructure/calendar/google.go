// Package calendar adapts the Google Calendar API to the ports.CalendarClient
// capability.
package calendar

import (
	"context"
	"time"

	"golang.org/x/oauth2"
	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/ports"
)

const pageSize = 250

// TokenProvider yields the OAuth token source backing calendar calls. It
// returns domain.ErrAuthRequired while the OAuth flow has not completed.
type TokenProvider interface {
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}

// GoogleClient implements ports.CalendarClient on top of the Google
// Calendar v3 API. The API service is rebuilt per call so that a token
// obtained after startup is picked up without restarting.
type GoogleClient struct {
	calendarID string
	auth       TokenProvider
	logger     ports.Logger

	// extraOpts replaces the credential options entirely when set. Tests
	// use it to point the client at a local backend.
	extraOpts []option.ClientOption
}

func NewGoogleClient(calendarID string, auth TokenProvider, logger ports.Logger, opts ...option.ClientOption) *GoogleClient {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleClient{
		calendarID: calendarID,
		auth:       auth,
		logger:     logger,
		extraOpts:  opts,
	}
}

func (c *GoogleClient) service(ctx context.Context) (*calendarapi.Service, error) {
	if len(c.extraOpts) > 0 {
		return calendarapi.NewService(ctx, c.extraOpts...)
	}
	source, err := c.auth.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	return calendarapi.NewService(ctx, option.WithTokenSource(source))
}

// ListEvents reads the window's events, following pagination until the
// backend reports no further pages. A failure on any page aborts the whole
// read.
func (c *GoogleClient) ListEvents(ctx context.Context, window domain.EventWindow) ([]domain.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	var events []domain.Event
	pageToken := ""
	for {
		call := svc.Events.List(c.calendarID).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(pageSize).
			Context(ctx)
		if !window.TimeMin.IsZero() {
			call = call.TimeMin(window.TimeMin.Format(time.RFC3339))
		}
		if !window.TimeMax.IsZero() {
			call = call.TimeMax(window.TimeMax.Format(time.RFC3339))
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			c.logger.Error("calendar list failed", err, map[string]interface{}{"page_token": pageToken})
			return nil, &domain.BackendError{Op: "list", Err: err}
		}
		for _, item := range page.Items {
			events = append(events, fromGoogleEvent(item))
		}
		pageToken = page.NextPageToken
		if pageToken == "" {
			return events, nil
		}
	}
}

func (c *GoogleClient) InsertEvent(ctx context.Context, payload domain.EventPayload) (domain.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return domain.Event{}, err
	}

	created, err := svc.Events.Insert(c.calendarID, toGoogleEvent(payload)).Context(ctx).Do()
	if err != nil {
		c.logger.Error("calendar insert failed", err, map[string]interface{}{"summary": payload.Summary})
		return domain.Event{}, &domain.BackendError{Op: "insert", Err: err}
	}
	c.logger.Info("event created", map[string]interface{}{"event_id": created.Id})
	return fromGoogleEvent(created), nil
}

// PatchEvent sends only the fields present in the payload; the backend
// leaves everything else untouched.
func (c *GoogleClient) PatchEvent(ctx context.Context, eventID string, payload domain.EventPayload) (domain.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return domain.Event{}, err
	}

	updated, err := svc.Events.Patch(c.calendarID, eventID, toGoogleEvent(payload)).Context(ctx).Do()
	if err != nil {
		c.logger.Error("calendar patch failed", err, map[string]interface{}{"event_id": eventID})
		return domain.Event{}, &domain.BackendError{Op: "update", Err: err}
	}
	c.logger.Info("event updated", map[string]interface{}{"event_id": eventID})
	return fromGoogleEvent(updated), nil
}

func (c *GoogleClient) DeleteEvent(ctx context.Context, eventID string) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}

	if err := svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do(); err != nil {
		c.logger.Error("calendar delete failed", err, map[string]interface{}{"event_id": eventID})
		return &domain.BackendError{Op: "delete", Err: err}
	}
	c.logger.Info("event deleted", map[string]interface{}{"event_id": eventID})
	return nil
}

func toGoogleEvent(payload domain.EventPayload) *calendarapi.Event {
	event := &calendarapi.Event{
		Summary:     payload.Summary,
		Description: payload.Description,
		Location:    payload.Location,
	}
	if payload.Start != nil {
		event.Start = toGoogleDateTime(*payload.Start)
	}
	if payload.End != nil {
		event.End = toGoogleDateTime(*payload.End)
	}
	return event
}

func toGoogleDateTime(dt domain.EventDateTime) *calendarapi.EventDateTime {
	return &calendarapi.EventDateTime{
		DateTime: dt.DateTime,
		Date:     dt.Date,
		TimeZone: dt.TimeZone,
	}
}

func fromGoogleEvent(event *calendarapi.Event) domain.Event {
	out := domain.Event{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Status:      event.Status,
	}
	if event.Start != nil {
		out.Start = domain.EventDateTime{DateTime: event.Start.DateTime, Date: event.Start.Date, TimeZone: event.Start.TimeZone}
	}
	if event.End != nil {
		out.End = domain.EventDateTime{DateTime: event.End.DateTime, Date: event.End.Date, TimeZone: event.End.TimeZone}
	}
	return out
}

var _ ports.CalendarClient = (*GoogleClient)(nil)
