package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/pkg/logger"
)

type stubCalendar struct {
	events    []domain.Event
	listErr   error
	insertErr error
	patchErr  error
	deleteErr error

	inserted []domain.EventPayload
	patched  map[string]domain.EventPayload
	deleted  []string
}

func newStubCalendar() *stubCalendar {
	return &stubCalendar{patched: make(map[string]domain.EventPayload)}
}

func (c *stubCalendar) ListEvents(context.Context, domain.EventWindow) ([]domain.Event, error) {
	return c.events, c.listErr
}

func (c *stubCalendar) InsertEvent(_ context.Context, payload domain.EventPayload) (domain.Event, error) {
	if c.insertErr != nil {
		return domain.Event{}, c.insertErr
	}
	c.inserted = append(c.inserted, payload)
	return domain.Event{ID: "created", Summary: payload.Summary}, nil
}

func (c *stubCalendar) PatchEvent(_ context.Context, eventID string, payload domain.EventPayload) (domain.Event, error) {
	if c.patchErr != nil {
		return domain.Event{}, c.patchErr
	}
	c.patched[eventID] = payload
	return domain.Event{ID: eventID, Summary: payload.Summary}, nil
}

func (c *stubCalendar) DeleteEvent(_ context.Context, eventID string) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.deleted = append(c.deleted, eventID)
	return nil
}

func timed(value string) *domain.EventDateTime {
	return &domain.EventDateTime{DateTime: value}
}

func TestExecuteInsertReportsRefresh(t *testing.T) {
	cal := newStubCalendar()
	exec := &CalendarExecutor{Calendar: cal, Logger: logger.NewNop()}

	outcome := exec.Execute(context.Background(), domain.ActionInsert, &domain.EventPayload{
		Summary: "Dentist",
		Start:   timed("2024-05-02T15:00:00Z"),
		End:     timed("2024-05-02T16:00:00Z"),
	})

	if !outcome.Success || !outcome.RefreshedEvents {
		t.Fatalf("outcome = %+v, want success with refresh signal", outcome)
	}
	if len(cal.inserted) != 1 {
		t.Fatalf("inserted %d events, want 1", len(cal.inserted))
	}
}

func TestExecuteValidatesRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		action  domain.ActionKind
		details *domain.EventPayload
	}{
		{"insert without summary", domain.ActionInsert, &domain.EventPayload{Start: timed("a"), End: timed("b")}},
		{"insert without start", domain.ActionInsert, &domain.EventPayload{Summary: "x", End: timed("b")}},
		{"insert without end", domain.ActionInsert, &domain.EventPayload{Summary: "x", Start: timed("a")}},
		{"insert without payload", domain.ActionInsert, nil},
		{"update without event id", domain.ActionUpdate, &domain.EventPayload{Summary: "x"}},
		{"delete without event id", domain.ActionDelete, &domain.EventPayload{}},
		{"non-executable action", domain.ActionList, &domain.EventPayload{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := newStubCalendar()
			exec := &CalendarExecutor{Calendar: cal, Logger: logger.NewNop()}

			outcome := exec.Execute(context.Background(), tt.action, tt.details)
			if outcome.Success || outcome.ErrorKind != domain.OutcomeErrorInput {
				t.Fatalf("outcome = %+v, want input failure", outcome)
			}
			if len(cal.inserted)+len(cal.patched)+len(cal.deleted) != 0 {
				t.Fatal("backend must not be called with invalid input")
			}
		})
	}
}

func TestExecuteBackendFailureIsAbsorbed(t *testing.T) {
	cal := newStubCalendar()
	cal.deleteErr = &domain.BackendError{Op: "delete", Err: errors.New("404 already gone")}
	exec := &CalendarExecutor{Calendar: cal, Logger: logger.NewNop()}

	outcome := exec.Execute(context.Background(), domain.ActionDelete, &domain.EventPayload{EventID: "e1"})
	if outcome.Success || outcome.ErrorKind != domain.OutcomeErrorBackend {
		t.Fatalf("outcome = %+v, want backend failure", outcome)
	}
}

func TestExecutePatchSendsOnlyProvidedFields(t *testing.T) {
	cal := newStubCalendar()
	exec := &CalendarExecutor{Calendar: cal, Logger: logger.NewNop()}

	outcome := exec.Execute(context.Background(), domain.ActionUpdate, &domain.EventPayload{
		EventID: "e2",
		Start:   timed("2024-05-03T10:00:00Z"),
	})
	if !outcome.Success {
		t.Fatalf("outcome = %+v, want success", outcome)
	}

	sent := cal.patched["e2"]
	if sent.Summary != "" || sent.End != nil {
		t.Fatalf("patch payload = %+v, want only the provided start field", sent)
	}
	if sent.Start == nil || sent.Start.DateTime != "2024-05-03T10:00:00Z" {
		t.Fatalf("patch payload start = %+v", sent.Start)
	}
}
