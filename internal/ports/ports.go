// Package ports defines the interfaces between the application core and the
// external capabilities it depends on: the language-understanding backend,
// the calendar backend, configuration, and logging. Concrete adapters live
// in the infrastructure layer; the core depends only on these abstractions.
package ports

import (
	"context"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// LanguageProvider maps a prompt to raw model text. The call is external
// I/O: non-deterministic, fallible, and subject to caller-chosen timeouts
// via ctx.
type LanguageProvider interface {
	Name() string
	Model() domain.ModelDefinition
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderFactory builds language providers from model definitions.
type ProviderFactory interface {
	ForModel(domain.ModelDefinition) (LanguageProvider, error)
}

// CalendarClient is the calendar backend capability. ListEvents follows
// backend pagination until exhausted; a failure mid-pagination aborts the
// whole read rather than returning a partial set.
type CalendarClient interface {
	ListEvents(ctx context.Context, window domain.EventWindow) ([]domain.Event, error)
	InsertEvent(ctx context.Context, payload domain.EventPayload) (domain.Event, error)
	PatchEvent(ctx context.Context, eventID string, payload domain.EventPayload) (domain.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// ConversationStore is the bounded, in-memory conversation ledger. Reads
// observe a consistent snapshot; FormatRecent never mutates state.
type ConversationStore interface {
	Append(domain.ConversationEntry)
	FormatRecent(n int) string
	Clear()
	Stats() domain.HistoryStats
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
