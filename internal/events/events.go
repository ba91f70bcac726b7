package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventReservationCreated       = "reservation_created"
	EventReservationCanceled      = "reservation_canceled"
	EventReservationStatusChanged = "reservation_status_changed"
	EventSessionExpired           = "session_expired"
)

// ReservationEventPayload is the minimal reservation snapshot handed to
// event consumers.
type ReservationEventPayload struct {
	ReservationID int64  `json:"reservation_id"`
	RestaurantID  int64  `json:"restaurant_id"`
	Status        int    `json:"status"`
	StatusName    string `json:"status_name"`
	NoPeople      int    `json:"no_people"`
	Date          string `json:"date"`
	PrevStatus    int    `json:"prev_status,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Handler reacts to an event.
type Handler func(event *Event) error

// Bus provides in-process pub/sub for domain events.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *Bus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
