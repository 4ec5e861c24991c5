// Package domain defines the core entities and value objects of the calendar
// assistant: resolved intents, event payloads, conversation history, and the
// error taxonomy shared by every layer.
package domain

// ActionKind enumerates the structured actions the language capability may
// decide on for a single utterance.
type ActionKind string

const (
	ActionList          ActionKind = "list"
	ActionInsert        ActionKind = "insert"
	ActionUpdate        ActionKind = "update"
	ActionDelete        ActionKind = "delete"
	ActionCheckConflict ActionKind = "check_conflict"
	ActionUnknown       ActionKind = "unknown"
)

// Valid reports whether the kind is one of the supported actions.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionList, ActionInsert, ActionUpdate, ActionDelete, ActionCheckConflict, ActionUnknown:
		return true
	}
	return false
}

// Mutating reports whether the action changes calendar state and is therefore
// subject to the confirmation gate.
func (k ActionKind) Mutating() bool {
	return k == ActionInsert || k == ActionUpdate || k == ActionDelete
}

// EventDateTime mirrors the calendar backend's start/end representation:
// either a timed instant (DateTime, RFC 3339) or an all-day date (Date).
type EventDateTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// EventPayload is a calendar event draft or reference. It is partially
// populated depending on the action: insert needs Summary, Start and End;
// update and delete need EventID.
type EventPayload struct {
	EventID     string         `json:"eventId,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	Description string         `json:"description,omitempty"`
	Location    string         `json:"location,omitempty"`
	Start       *EventDateTime `json:"start,omitempty"`
	End         *EventDateTime `json:"end,omitempty"`
}

// ResolvedIntent is the structured decision produced once per utterance by
// the intent resolver. It is immutable once returned.
type ResolvedIntent struct {
	Action               ActionKind    `json:"action"`
	EventDetails         *EventPayload `json:"eventDetails,omitempty"`
	ResponseMessage      string        `json:"responseMessage"`
	RequiresConfirmation bool          `json:"requiresConfirmation"`
}

// OutcomeErrorKind classifies a failed action outcome.
type OutcomeErrorKind string

const (
	OutcomeErrorNone    OutcomeErrorKind = ""
	OutcomeErrorInput   OutcomeErrorKind = "InputError"
	OutcomeErrorBackend OutcomeErrorKind = "BackendFailure"
)

// ActionOutcome is the uniform result of applying an approved action to the
// calendar backend. It is never persisted beyond the response and the
// history append.
type ActionOutcome struct {
	Success         bool             `json:"success"`
	RefreshedEvents bool             `json:"refreshedEvents,omitempty"`
	ErrorKind       OutcomeErrorKind `json:"errorKind,omitempty"`
}
