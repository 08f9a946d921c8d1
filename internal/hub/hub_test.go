package hub

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Skotchmaster/qr_menu/internal/models"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (r *recorder) Deliver(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("connection closed")
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) got() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func orderEvent(t EventType) Event {
	return Event{Type: t, Order: models.Order{ID: uuid.New(), Status: models.StatusPending}}
}

func TestHub_DeliversInPublishOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := New(nil)
	a, b := &recorder{}, &recorder{}
	h.Register(a)
	h.Register(b)

	var sent []Event
	for i := 0; i < 20; i++ {
		ev := orderEvent(EventNewOrder)
		sent = append(sent, ev)
		h.Publish(ev)
	}

	assert.Equal(t, sent, a.got())
	assert.Equal(t, sent, b.got())
}

func TestHub_FailingObserverDoesNotBlockOthers(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := New(nil)
	bad := &recorder{fail: true}
	good := &recorder{}
	h.Register(bad)
	h.Register(good)

	h.Publish(orderEvent(EventOrderUpdate))

	assert.Len(t, good.got(), 1)
	assert.Empty(t, bad.got())
	assert.Equal(t, 2, h.Count(), "failed observer stays registered")
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := New(nil)
	r := &recorder{}
	h.Register(r)

	h.Publish(orderEvent(EventNewOrder))
	h.Publish(orderEvent(EventNewOrder))
	h.Unregister(r)
	h.Publish(orderEvent(EventOrderUpdate))

	assert.Len(t, r.got(), 2)
	assert.Equal(t, 0, h.Count())
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := New(nil)
	r := &recorder{}
	h.Register(r)

	h.Unregister(r)
	h.Unregister(r)
	h.Unregister(&recorder{})

	assert.Equal(t, 0, h.Count())
}

func TestHub_PublishWithNoObservers(t *testing.T) {
	h := New(nil)
	require.NotPanics(t, func() { h.Publish(orderEvent(EventNewOrder)) })
}

func TestHub_ConcurrentChurn(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := New(nil)
	stable := &recorder{}
	h.Register(stable)

	const publishes = 200
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < publishes; i++ {
			h.Publish(orderEvent(EventNewOrder))
		}
	}()

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r := &recorder{}
				h.Register(r)
				h.Unregister(r)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, stable.got(), publishes)
	assert.Equal(t, 1, h.Count())
}
