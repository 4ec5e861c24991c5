// Package services contains the application core: the intent resolver, the
// confirmation gate, the action executor, and the per-session orchestration
// that ties them together.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/ports"
)

// User-facing fallback messages. The parse-failure message is deliberately
// distinct from the general-failure one so callers (and tests) can tell a
// malformed model response apart from an unreachable model.
const (
	parseFailureMessage   = "Sorry, I got a garbled answer back. Could you rephrase your request?"
	generalFailureMessage = "Sorry, I'm having trouble understanding that right now."
	defaultApologyMessage = "Sorry, I didn't quite catch that. Could you try again?"
)

const directiveTemplate = `You are a smart calendar assistant.
Current time: %s

Conversation history:
%s

User message: "%s"

Context (current events): %s

Analyze the user's request and determine the action. Use the conversation
history to resolve references like "that meeting" or "the one we discussed".
Return a JSON object with the following structure:
{
  "action": "list" | "insert" | "update" | "delete" | "check_conflict" | "unknown",
  "eventDetails": {
    "summary": "Event Title",
    "start": { "dateTime": "ISO String" },
    "end": { "dateTime": "ISO String" },
    "eventId": "ID if update/delete"
  },
  "responseMessage": "Natural language response to user",
  "requiresConfirmation": boolean
}
If there is a conflict, set action to "check_conflict" and suggest alternatives in responseMessage.
If deleting or modifying, set requiresConfirmation to true.
Output ONLY JSON.`

// Resolver turns an utterance plus calendar context plus formatted history
// into a single ResolvedIntent. Every path resolves: capability failures
// collapse into deterministic fallback intents instead of errors.
type Resolver struct {
	Factory    ports.ProviderFactory
	Candidates []domain.ModelDefinition
	Logger     ports.Logger

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// Resolve tries each candidate model configuration once, in order, stopping
// at the first structurally valid result. A malformed response falls back
// immediately; only transport failures move on to the next configuration.
func (r *Resolver) Resolve(ctx context.Context, utterance string, events []domain.Event, history string) domain.ResolvedIntent {
	prompt := r.buildDirective(utterance, events, history)

	var lastErr error
	for _, model := range r.Candidates {
		provider, err := r.Factory.ForModel(model)
		if err != nil {
			r.Logger.Warn("provider init failed", map[string]interface{}{
				"model": model.Name, "error": err.Error(),
			})
			lastErr = err
			continue
		}

		raw, err := provider.Complete(ctx, prompt)
		if err != nil {
			r.Logger.Warn("language capability failed", map[string]interface{}{
				"provider": provider.Name(), "model": model.ModelID, "error": err.Error(),
			})
			lastErr = &domain.TransportError{Capability: "language", Err: err}
			continue
		}

		intent, err := parseIntent(raw)
		if err != nil {
			r.Logger.Error("unparseable model response", err, map[string]interface{}{
				"provider": provider.Name(), "model": model.ModelID,
			})
			return parseFailureIntent()
		}
		return sanitizeIntent(intent)
	}

	r.Logger.Error("all language configurations failed", lastErr, map[string]interface{}{
		"candidates": len(r.Candidates),
	})
	return generalFailureIntent()
}

func (r *Resolver) buildDirective(utterance string, events []domain.Event, history string) string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	contextJSON, err := json.Marshal(events)
	if err != nil {
		contextJSON = []byte("[]")
	}
	if history == "" {
		history = domain.NoHistorySentinel
	}

	return fmt.Sprintf(directiveTemplate,
		now().UTC().Format(time.RFC3339),
		history,
		utterance,
		contextJSON,
	)
}

// wireIntent is the untyped shape expected back from the model. The raw text
// is never trusted; it goes through an explicit parse-and-validate step.
type wireIntent struct {
	Action               string               `json:"action"`
	EventDetails         *domain.EventPayload `json:"eventDetails"`
	ResponseMessage      string               `json:"responseMessage"`
	RequiresConfirmation bool                 `json:"requiresConfirmation"`
}

func parseIntent(raw string) (wireIntent, error) {
	cleaned := stripCodeFences(raw)
	jsonText := firstJSONObject(cleaned)
	if jsonText == "" {
		return wireIntent{}, &domain.FormatError{Raw: raw, Err: fmt.Errorf("no JSON object found")}
	}

	var intent wireIntent
	if err := json.Unmarshal([]byte(jsonText), &intent); err != nil {
		return wireIntent{}, &domain.FormatError{Raw: raw, Err: err}
	}
	return intent, nil
}

// sanitizeIntent applies the validation and safety rules:
//   - missing action or response message gets a safe default, not an error;
//   - unsupported action kinds collapse to unknown;
//   - update and delete always leave with RequiresConfirmation set, no matter
//     what the model returned;
//   - non-mutating actions never carry a confirmation requirement.
func sanitizeIntent(wire wireIntent) domain.ResolvedIntent {
	action := domain.ActionKind(strings.ToLower(strings.TrimSpace(wire.Action)))
	if action == "" || !action.Valid() {
		action = domain.ActionUnknown
	}

	message := strings.TrimSpace(wire.ResponseMessage)
	if message == "" {
		message = defaultApologyMessage
	}

	intent := domain.ResolvedIntent{
		Action:               action,
		EventDetails:         wire.EventDetails,
		ResponseMessage:      message,
		RequiresConfirmation: wire.RequiresConfirmation,
	}

	switch {
	case action == domain.ActionUpdate || action == domain.ActionDelete:
		intent.RequiresConfirmation = true
	case !action.Mutating():
		intent.RequiresConfirmation = false
	}
	return intent
}

func parseFailureIntent() domain.ResolvedIntent {
	return domain.ResolvedIntent{
		Action:          domain.ActionUnknown,
		ResponseMessage: parseFailureMessage,
	}
}

func generalFailureIntent() domain.ResolvedIntent {
	return domain.ResolvedIntent{
		Action:          domain.ActionUnknown,
		ResponseMessage: generalFailureMessage,
	}
}

// stripCodeFences removes markdown code fence markers the model may wrap its
// JSON in.
func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// firstJSONObject extracts the first balanced {...} object embedded in the
// text, tolerating surrounding prose. Braces inside JSON strings are ignored.
func firstJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
