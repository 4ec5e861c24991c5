package domain

import "time"

// MaxHistory caps the number of retained conversation entries. Older entries
// are evicted first.
const MaxHistory = 20

// NoHistorySentinel is returned by formatted-history reads when there is
// nothing to render.
const NoHistorySentinel = "(this is the start of the conversation, no prior history)"

// EntryMetadata records what the resolver decided for a turn.
type EntryMetadata struct {
	Action               ActionKind    `json:"action,omitempty"`
	EventDetails         *EventPayload `json:"eventDetails,omitempty"`
	RequiresConfirmation bool          `json:"requiresConfirmation,omitempty"`
}

// ConversationEntry is one (utterance, response, metadata) triple. Entries
// are immutable once appended.
type ConversationEntry struct {
	Timestamp time.Time     `json:"timestamp"`
	User      string        `json:"user"`
	Assistant string        `json:"assistant"`
	Metadata  EntryMetadata `json:"metadata"`
}

// HistoryStats summarizes the conversation store. The timestamps are nil
// when the store is empty.
type HistoryStats struct {
	TotalConversations int        `json:"totalConversations"`
	OldestTimestamp    *time.Time `json:"oldestTimestamp"`
	NewestTimestamp    *time.Time `json:"newestTimestamp"`
}
