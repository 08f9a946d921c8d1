// Package hub fans order lifecycle events out to every live observer.
package hub

import (
	"log/slog"
	"sync"

	"github.com/Skotchmaster/qr_menu/internal/models"
)

type EventType string

const (
	EventNewOrder    EventType = "new_order"
	EventOrderUpdate EventType = "order_update"
)

type Event struct {
	Type  EventType    `json:"type"`
	Order models.Order `json:"order"`
}

// Observer receives published events. Deliver must be safe to call from
// multiple publishers at once.
type Observer interface {
	Deliver(Event) error
}

type Hub struct {
	mu        sync.Mutex
	observers map[Observer]struct{}
	log       *slog.Logger
}

func New(l *slog.Logger) *Hub {
	if l == nil {
		l = slog.Default()
	}
	return &Hub{
		observers: make(map[Observer]struct{}),
		log:       l.With("component", "hub"),
	}
}

func (h *Hub) Register(o Observer) {
	h.mu.Lock()
	h.observers[o] = struct{}{}
	n := len(h.observers)
	h.mu.Unlock()

	h.log.Debug("observer_registered", "observers", n)
}

// Unregister is a no-op for an observer that is not registered.
func (h *Hub) Unregister(o Observer) {
	h.mu.Lock()
	_, ok := h.observers[o]
	delete(h.observers, o)
	n := len(h.observers)
	h.mu.Unlock()

	if ok {
		h.log.Debug("observer_unregistered", "observers", n)
	}
}

// Publish delivers ev to a snapshot of the registered observers, one after
// another. Failed deliveries are logged and the observer stays registered;
// its own read loop is responsible for unregistering it.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	snapshot := make([]Observer, 0, len(h.observers))
	for o := range h.observers {
		snapshot = append(snapshot, o)
	}
	h.mu.Unlock()

	for _, o := range snapshot {
		if err := o.Deliver(ev); err != nil {
			h.log.Debug("deliver_failed", "type", ev.Type, "order_id", ev.Order.ID, "error", err)
		}
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}
