package services

import (
	"context"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/ports"
)

// ActionExecutor applies an approved action to the calendar backend and
// reports a uniform outcome. Implementations never let a transport error
// escape; callers only ever see an ActionOutcome.
type ActionExecutor interface {
	Execute(ctx context.Context, action domain.ActionKind, details *domain.EventPayload) domain.ActionOutcome
}

// CalendarExecutor executes insert/update/delete against a calendar client.
type CalendarExecutor struct {
	Calendar ports.CalendarClient
	Logger   ports.Logger
}

// Execute validates the payload for the action kind, performs the backend
// call, and converts any failure into a non-success outcome.
func (e *CalendarExecutor) Execute(ctx context.Context, action domain.ActionKind, details *domain.EventPayload) domain.ActionOutcome {
	switch action {
	case domain.ActionInsert:
		if details == nil || details.Summary == "" || details.Start == nil || details.End == nil {
			return inputFailure()
		}
		if _, err := e.Calendar.InsertEvent(ctx, *details); err != nil {
			return e.backendFailure("insert", err)
		}
	case domain.ActionUpdate:
		if details == nil || details.EventID == "" {
			return inputFailure()
		}
		// Partial update: fields absent from the payload stay untouched on
		// the backend.
		if _, err := e.Calendar.PatchEvent(ctx, details.EventID, *details); err != nil {
			return e.backendFailure("patch", err)
		}
	case domain.ActionDelete:
		if details == nil || details.EventID == "" {
			return inputFailure()
		}
		if err := e.Calendar.DeleteEvent(ctx, details.EventID); err != nil {
			return e.backendFailure("delete", err)
		}
	default:
		return inputFailure()
	}

	return domain.ActionOutcome{Success: true, RefreshedEvents: true}
}

func (e *CalendarExecutor) backendFailure(op string, err error) domain.ActionOutcome {
	e.Logger.Error("calendar backend call failed", err, map[string]interface{}{"op": op})
	return domain.ActionOutcome{Success: false, ErrorKind: domain.OutcomeErrorBackend}
}

func inputFailure() domain.ActionOutcome {
	return domain.ActionOutcome{Success: false, ErrorKind: domain.OutcomeErrorInput}
}

var _ ActionExecutor = (*CalendarExecutor)(nil)
