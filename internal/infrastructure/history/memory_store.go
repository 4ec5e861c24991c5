// Package history implements the bounded in-memory conversation store. The
// store's lifetime equals the process lifetime; a restart loses all history.
package history

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/ports"
)

// MemoryStore keeps the most recent conversation entries in insertion order.
// Appends beyond the cap evict the oldest entry first.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []domain.ConversationEntry
	max     int
}

// NewMemoryStore creates a store capped at domain.MaxHistory entries.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{max: domain.MaxHistory}
}

// Append adds an entry, evicting the oldest when the cap is exceeded.
func (s *MemoryStore) Append(entry domain.ConversationEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	if len(s.entries) > s.max {
		s.entries = s.entries[len(s.entries)-s.max:]
	}
}

// FormatRecent renders the last n entries chronologically for injection into
// the resolver's directive. It returns the no-history sentinel when there is
// nothing to render; n is clamped to the history length.
func (s *MemoryStore) FormatRecent(n int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || len(s.entries) == 0 {
		return domain.NoHistorySentinel
	}
	if n > len(s.entries) {
		n = len(s.entries)
	}

	recent := s.entries[len(s.entries)-n:]
	blocks := make([]string, 0, len(recent))
	for i, entry := range recent {
		var b strings.Builder
		fmt.Fprintf(&b, "[Conversation %d - %s]\n", i+1, entry.Timestamp.Format(time.RFC3339))
		fmt.Fprintf(&b, "User: %s\n", entry.User)
		fmt.Fprintf(&b, "Assistant: %s", entry.Assistant)
		if entry.Metadata.Action != "" {
			fmt.Fprintf(&b, " (action: %s)", entry.Metadata.Action)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// Clear empties the history.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// Stats reports the entry count and the oldest/newest timestamps.
func (s *MemoryStore) Stats() domain.HistoryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.HistoryStats{TotalConversations: len(s.entries)}
	if len(s.entries) > 0 {
		oldest := s.entries[0].Timestamp
		newest := s.entries[len(s.entries)-1].Timestamp
		stats.OldestTimestamp = &oldest
		stats.NewestTimestamp = &newest
	}
	return stats
}

var _ ports.ConversationStore = (*MemoryStore)(nil)
