package services

import (
	"context"
	"sync"
	"time"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
)

// SubmitResult is the outcome of offering a resolved intent to the gate.
// Exactly one of the fields is meaningful: Outcome when the action executed
// immediately, Pending when it awaits approval, neither for informational
// actions.
type SubmitResult struct {
	Pending bool
	Outcome *domain.ActionOutcome
}

// Gate is the per-session confirmation state machine. It holds at most one
// pending action; a newer confirmation request supersedes an unresolved
// older one rather than queueing behind it.
type Gate struct {
	Exec ActionExecutor

	// PendingTTL bounds how long a pending action stays approvable. Zero
	// means no expiry, matching the behavior documented as a known
	// limitation: a pending action then lingers until resolved or
	// superseded.
	PendingTTL time.Duration

	mu      sync.Mutex
	pending *pendingAction
	now     func() time.Time
}

type pendingAction struct {
	intent    domain.ResolvedIntent
	createdAt time.Time
}

// NewGate builds a gate around an executor.
func NewGate(exec ActionExecutor, pendingTTL time.Duration) *Gate {
	return &Gate{Exec: exec, PendingTTL: pendingTTL, now: time.Now}
}

// Submit routes a resolved intent. Mutating intents without a confirmation
// requirement execute immediately; confirmation-required intents become the
// single pending action; everything else is informational and creates no
// pending state.
func (g *Gate) Submit(ctx context.Context, intent domain.ResolvedIntent) SubmitResult {
	if !intent.Action.Mutating() {
		return SubmitResult{}
	}

	if !intent.RequiresConfirmation {
		outcome := g.Exec.Execute(ctx, intent.Action, intent.EventDetails)
		return SubmitResult{Outcome: &outcome}
	}

	g.mu.Lock()
	g.pending = &pendingAction{intent: intent, createdAt: g.clock()()}
	g.mu.Unlock()
	return SubmitResult{Pending: true}
}

// Approve executes the current pending action and clears it. It fails with
// domain.ErrNoPendingAction when the gate is idle or the pending action has
// expired.
func (g *Gate) Approve(ctx context.Context) (domain.ActionOutcome, error) {
	g.mu.Lock()
	pending := g.pending
	if pending != nil && g.expired(pending) {
		g.pending = nil
		pending = nil
	}
	if pending == nil {
		g.mu.Unlock()
		return domain.ActionOutcome{}, domain.ErrNoPendingAction
	}
	g.pending = nil
	g.mu.Unlock()

	return g.Exec.Execute(ctx, pending.intent.Action, pending.intent.EventDetails), nil
}

// Reject clears the pending action if one exists. Rejecting an idle gate is
// a no-op.
func (g *Gate) Reject() {
	g.mu.Lock()
	g.pending = nil
	g.mu.Unlock()
}

// Pending returns a snapshot of the pending intent, if any.
func (g *Gate) Pending() (domain.ResolvedIntent, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil || g.expired(g.pending) {
		return domain.ResolvedIntent{}, false
	}
	return g.pending.intent, true
}

func (g *Gate) expired(p *pendingAction) bool {
	return g.PendingTTL > 0 && g.clock()().Sub(p.createdAt) > g.PendingTTL
}

func (g *Gate) clock() func() time.Time {
	if g.now == nil {
		return time.Now
	}
	return g.now
}
