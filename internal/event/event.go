package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/FumoBot_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Event types
const (
	RollCompleted   Type = "roll.completed"
	RollFailed      Type = "roll.failed"
	BoostGranted    Type = "boost.granted"
	BoostsPruned    Type = "boost.pruned"
	AutoRollStarted Type = "autoroll.started"
	AutoRollStopped Type = "autoroll.stopped"
)

// Metadata keys
const (
	MetadataKeyAutoRoll = "auto_roll"
	MetadataKeySession  = "session_id"
)

// RollCompletedPayloadV1 summarizes one committed roll transaction
type RollCompletedPayloadV1 struct {
	UserID         string                `json:"user_id"`
	Requested      int                   `json:"requested"`
	Credited       int                   `json:"credited"`
	Partial        bool                  `json:"partial"`
	CoinsSpent     int64                 `json:"coins_spent"`
	BonusRollsUsed int                   `json:"bonus_rolls_used"`
	Rarities       map[domain.Rarity]int `json:"rarities"`
	PityTriggers   []domain.Rarity       `json:"pity_triggers,omitempty"`
	Best           *domain.RollOutcome   `json:"best,omitempty"`
	Timestamp      int64                 `json:"timestamp"`
}

// RollFailedPayloadV1 describes an aborted roll transaction
type RollFailedPayloadV1 struct {
	UserID    string               `json:"user_id"`
	Kind      domain.RollErrorKind `json:"kind"`
	Refunded  int64                `json:"refunded"`
	Timestamp int64                `json:"timestamp"`
}

// BoostGrantedPayloadV1 is emitted when a boost is created or refreshed
type BoostGrantedPayloadV1 struct {
	UserID string           `json:"user_id"`
	Source string           `json:"source"`
	Kind   domain.BoostKind `json:"kind"`
	Stack  int              `json:"stack"`
}

// AutoRollPayloadV1 describes an auto-roll session transition
type AutoRollPayloadV1 struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Batches   int    `json:"batches"`
	Rolls     int    `json:"rolls"`
	Reason    string `json:"reason,omitempty"`
}

// BoostsPrunedPayloadV1 reports a pruning run
type BoostsPrunedPayloadV1 struct {
	Deleted  int64     `json:"deleted"`
	PrunedAt time.Time `json:"pruned_at"`
}

// NewRollCompletedEvent creates a roll completed event
func NewRollCompletedEvent(p RollCompletedPayloadV1, autoRoll bool) Event {
	if p.Timestamp == 0 {
		p.Timestamp = time.Now().Unix()
	}
	return Event{
		Version:  EventSchemaVersion,
		Type:     RollCompleted,
		Payload:  p,
		Metadata: map[string]interface{}{MetadataKeyAutoRoll: autoRoll},
	}
}

// NewRollFailedEvent creates a roll failed event
func NewRollFailedEvent(userID string, kind domain.RollErrorKind, refunded int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RollFailed,
		Payload: RollFailedPayloadV1{
			UserID:    userID,
			Kind:      kind,
			Refunded:  refunded,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewBoostGrantedEvent creates a boost granted event
func NewBoostGrantedEvent(b domain.Boost) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BoostGranted,
		Payload: BoostGrantedPayloadV1{
			UserID: b.UserID,
			Source: b.Source,
			Kind:   b.Kind(),
			Stack:  b.StackCount(),
		},
	}
}

// NewAutoRollEvent creates an auto-roll started or stopped event
func NewAutoRollEvent(t Type, p AutoRollPayloadV1) Event {
	return Event{
		Version:  EventSchemaVersion,
		Type:     t,
		Payload:  p,
		Metadata: map[string]interface{}{MetadataKeySession: p.SessionID},
	}
}

// NewBoostsPrunedEvent creates a pruning event
func NewBoostsPrunedEvent(deleted int64, at time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BoostsPruned,
		Payload: BoostsPrunedPayloadV1{Deleted: deleted, PrunedAt: at},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers synchronously
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// NopBus discards every event
type NopBus struct{}

func (NopBus) Publish(context.Context, Event) error { return nil }
func (NopBus) Subscribe(Type, Handler)              {}
