package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/ports"
)

// Session owns the mutable per-session state: the conversation history and
// the confirmation gate. All access within a session is sequential; the
// request-handling layer serializes turns.
type Session struct {
	ID      string
	History ports.ConversationStore
	Gate    *Gate
}

// SessionRegistry hands out isolated sessions keyed by an opaque session
// key. A single-user deployment still goes through the registry; no state
// is process-global.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	newGate  func() *Gate
	newStore func() ports.ConversationStore
}

// NewSessionRegistry builds a registry with the given session-state
// constructors.
func NewSessionRegistry(newStore func() ports.ConversationStore, newGate func() *Gate) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		newGate:  newGate,
		newStore: newStore,
	}
}

// Get returns the session for key, creating it on first use.
func (r *SessionRegistry) Get(key string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, found := r.sessions[key]; found {
		return session
	}
	session := &Session{ID: key, History: r.newStore(), Gate: r.newGate()}
	r.sessions[key] = session
	return session
}

// TurnResult is what one chat turn produces: the resolved intent plus, for
// mutating actions, either an immediate outcome or a pending marker.
type TurnResult struct {
	Intent  domain.ResolvedIntent
	Pending bool
	Outcome *domain.ActionOutcome
}

// ChatService orchestrates a turn end-to-end: gather context, resolve the
// intent, route it through the gate, and record the turn in history.
type ChatService struct {
	Calendar ports.CalendarClient
	Resolver *Resolver
	Sessions *SessionRegistry
	Logger   ports.Logger

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// HandleTurn processes a single utterance for the keyed session. The history
// append happens only after the intent (and any immediate outcome) is known,
// so history stays consistent with what actually happened.
func (s *ChatService) HandleTurn(ctx context.Context, sessionKey, message string) (TurnResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return TurnResult{}, domain.NewInputError("message is required")
	}

	session := s.Sessions.Get(sessionKey)
	history := session.History.FormatRecent(domain.MaxHistory)

	events, err := s.Calendar.ListEvents(ctx, domain.EventWindow{TimeMin: s.clock()()})
	if err != nil {
		return TurnResult{}, err
	}

	intent := s.Resolver.Resolve(ctx, message, events, history)
	result := TurnResult{Intent: intent}

	if intent.Action.Mutating() {
		submitted := session.Gate.Submit(ctx, intent)
		result.Pending = submitted.Pending
		result.Outcome = submitted.Outcome
	}

	session.History.Append(domain.ConversationEntry{
		Timestamp: s.clock()(),
		User:      message,
		Assistant: intent.ResponseMessage,
		Metadata: domain.EntryMetadata{
			Action:               intent.Action,
			EventDetails:         intent.EventDetails,
			RequiresConfirmation: intent.RequiresConfirmation,
		},
	})

	return result, nil
}

// Approve executes the session's pending action.
func (s *ChatService) Approve(ctx context.Context, sessionKey string) (domain.ActionOutcome, error) {
	return s.Sessions.Get(sessionKey).Gate.Approve(ctx)
}

// Reject discards the session's pending action. Idempotent.
func (s *ChatService) Reject(sessionKey string) {
	s.Sessions.Get(sessionKey).Gate.Reject()
}

// ClearHistory empties the session's conversation store.
func (s *ChatService) ClearHistory(sessionKey string) {
	s.Sessions.Get(sessionKey).History.Clear()
}

// HistoryStats reports the session's conversation store statistics.
func (s *ChatService) HistoryStats(sessionKey string) domain.HistoryStats {
	return s.Sessions.Get(sessionKey).History.Stats()
}

func (s *ChatService) clock() func() time.Time {
	if s.Now == nil {
		return time.Now
	}
	return s.Now
}
