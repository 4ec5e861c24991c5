package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/infrastructure/history"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/pkg/logger"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/ports"
)

func newChatService(cal ports.CalendarClient, raw string, rawErr error) *ChatService {
	model := domain.ModelDefinition{Name: "primary"}
	resolver := newResolver(scriptedFactory{providers: map[string]ports.LanguageProvider{
		"primary": scriptedProvider{model: model, text: raw, err: rawErr},
	}}, model)

	exec := &CalendarExecutor{Calendar: cal, Logger: logger.NewNop()}
	registry := NewSessionRegistry(
		func() ports.ConversationStore { return history.NewMemoryStore() },
		func() *Gate { return NewGate(exec, 0) },
	)

	return &ChatService{
		Calendar: cal,
		Resolver: resolver,
		Sessions: registry,
		Logger:   logger.NewNop(),
		Now:      func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) },
	}
}

// Scenario: "Delete my 3pm meeting" resolves against the matching context
// event, goes pending, and executes only on approval.
func TestHandleTurnDeleteGoesPendingThenApproves(t *testing.T) {
	cal := newStubCalendar()
	cal.events = []domain.Event{{ID: "e1", Summary: "Sync", Start: domain.EventDateTime{DateTime: "2024-05-01T15:00:00Z"}}}

	raw := `{"action":"delete","eventDetails":{"eventId":"e1"},"responseMessage":"Delete the 3pm Sync?","requiresConfirmation":true}`
	svc := newChatService(cal, raw, nil)

	result, err := svc.HandleTurn(context.Background(), "default", "Delete my 3pm meeting")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if result.Intent.Action != domain.ActionDelete || result.Intent.EventDetails.EventID != "e1" {
		t.Fatalf("intent = %+v, want delete of e1", result.Intent)
	}
	if !result.Pending || result.Outcome != nil {
		t.Fatalf("result = %+v, want pending", result)
	}
	if len(cal.deleted) != 0 {
		t.Fatal("delete must wait for approval")
	}

	outcome, err := svc.Approve(context.Background(), "default")
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if !outcome.Success {
		t.Fatalf("outcome = %+v, want success", outcome)
	}
	if len(cal.deleted) != 1 || cal.deleted[0] != "e1" {
		t.Fatalf("deleted = %v, want [e1]", cal.deleted)
	}
}

func TestHandleTurnImmediateInsertOutcome(t *testing.T) {
	cal := newStubCalendar()
	raw := `{"action":"insert","eventDetails":{"summary":"Lunch","start":{"dateTime":"2024-05-01T12:00:00Z"},"end":{"dateTime":"2024-05-01T13:00:00Z"}},"responseMessage":"Adding lunch.","requiresConfirmation":false}`
	svc := newChatService(cal, raw, nil)

	result, err := svc.HandleTurn(context.Background(), "default", "lunch at noon")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if result.Pending {
		t.Fatal("insert without confirmation should execute immediately")
	}
	if result.Outcome == nil || !result.Outcome.Success || !result.Outcome.RefreshedEvents {
		t.Fatalf("outcome = %+v, want success with refresh signal", result.Outcome)
	}
}

func TestHandleTurnRejectsEmptyMessage(t *testing.T) {
	svc := newChatService(newStubCalendar(), `{"action":"list","responseMessage":"ok"}`, nil)

	_, err := svc.HandleTurn(context.Background(), "default", "   ")
	var inputErr *domain.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("error = %v, want InputError", err)
	}
}

func TestHandleTurnAppendsHistoryAfterOutcome(t *testing.T) {
	cal := newStubCalendar()
	raw := `{"action":"list","responseMessage":"Here are your events."}`
	svc := newChatService(cal, raw, nil)

	if _, err := svc.HandleTurn(context.Background(), "default", "show my calendar"); err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}

	stats := svc.HistoryStats("default")
	if stats.TotalConversations != 1 {
		t.Fatalf("TotalConversations = %d, want 1", stats.TotalConversations)
	}

	formatted := svc.Sessions.Get("default").History.FormatRecent(domain.MaxHistory)
	if formatted == domain.NoHistorySentinel {
		t.Fatal("expected the turn to be recorded")
	}
}

func TestHandleTurnRecordsFailedAttempts(t *testing.T) {
	cal := newStubCalendar()
	cal.insertErr = errors.New("backend down")
	raw := `{"action":"insert","eventDetails":{"summary":"Lunch","start":{"dateTime":"a"},"end":{"dateTime":"b"}},"responseMessage":"Adding lunch.","requiresConfirmation":false}`
	svc := newChatService(cal, raw, nil)

	result, err := svc.HandleTurn(context.Background(), "default", "lunch at noon")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if result.Outcome == nil || result.Outcome.Success {
		t.Fatalf("outcome = %+v, want backend failure", result.Outcome)
	}
	if svc.HistoryStats("default").TotalConversations != 1 {
		t.Fatal("history must record the attempt even when execution fails")
	}
}

func TestHandleTurnPropagatesContextFetchFailure(t *testing.T) {
	cal := newStubCalendar()
	cal.listErr = &domain.TransportError{Capability: "calendar", Err: errors.New("unreachable")}
	svc := newChatService(cal, `{"action":"list","responseMessage":"ok"}`, nil)

	if _, err := svc.HandleTurn(context.Background(), "default", "anything"); err == nil {
		t.Fatal("expected context-fetch failure to surface")
	}
	if svc.HistoryStats("default").TotalConversations != 0 {
		t.Fatal("no history entry should be recorded for an unresolved turn")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	cal := newStubCalendar()
	raw := `{"action":"delete","eventDetails":{"eventId":"e1"},"responseMessage":"Delete it?","requiresConfirmation":true}`
	svc := newChatService(cal, raw, nil)

	if _, err := svc.HandleTurn(context.Background(), "alice", "delete my meeting"); err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}

	// The pending action belongs to alice's session only.
	if _, err := svc.Approve(context.Background(), "bob"); !errors.Is(err, domain.ErrNoPendingAction) {
		t.Fatalf("Approve for other session error = %v, want ErrNoPendingAction", err)
	}
	if _, err := svc.Approve(context.Background(), "alice"); err != nil {
		t.Fatalf("Approve for owning session error = %v", err)
	}

	if svc.HistoryStats("bob").TotalConversations != 0 {
		t.Fatal("history must be isolated per session")
	}
}

func TestClearHistory(t *testing.T) {
	svc := newChatService(newStubCalendar(), `{"action":"list","responseMessage":"ok"}`, nil)

	if _, err := svc.HandleTurn(context.Background(), "default", "hi"); err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	svc.ClearHistory("default")
	if svc.HistoryStats("default").TotalConversations != 0 {
		t.Fatal("ClearHistory should empty the store")
	}
}
