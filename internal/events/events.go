package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType represents different event types
type EventType string

const (
	SearchStarted    EventType = "SEARCH_STARTED"
	SourceFetched    EventType = "SOURCE_FETCHED"
	SearchCompleted  EventType = "SEARCH_COMPLETED"
	SearchFailed     EventType = "SEARCH_FAILED"
	BackupCompleted  EventType = "BACKUP_COMPLETED"
	CleanupCompleted EventType = "CLEANUP_COMPLETED"
)

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	SearchID  string                 `json:"search_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Bus fans events out to subscribers. Slow subscribers are skipped
// rather than blocking the emitter.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	log    zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subs: make(map[int]chan Event),
		log:  log.With().Str("component", "events").Logger(),
	}
}

// Subscribe returns a channel of events and an unsubscribe func
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, 16)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Emit publishes an event to all subscribers
func (b *Bus) Emit(evtType EventType, searchID string, data map[string]interface{}) {
	evt := Event{
		Type:      evtType,
		Timestamp: time.Now().UTC(),
		SearchID:  searchID,
		Data:      data,
	}

	b.log.Debug().
		Str("type", string(evtType)).
		Str("search_id", searchID).
		Msg("Event emitted")

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			// Subscriber buffer full, drop for this subscriber
		}
	}
}
