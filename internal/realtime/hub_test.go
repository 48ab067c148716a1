package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPublishReachesSubscriber(t *testing.T) {
	hub := NewHub(zap.NewNop())

	ch := hub.Subscribe("p1")
	defer hub.Unsubscribe("p1", ch)

	hub.Publish("p1", Event{Action: ActionUpdated, ProductID: "p1", EntryID: "e1"})

	select {
	case ev := <-ch:
		assert.Equal(t, ActionUpdated, ev.Action)
		assert.Equal(t, "e1", ev.EntryID)
	case <-time.After(time.Second):
		t.Fatal("expected event was not delivered")
	}
}

func TestPublishIsRoomScoped(t *testing.T) {
	hub := NewHub(zap.NewNop())

	other := hub.Subscribe("p2")
	defer hub.Unsubscribe("p2", other)

	hub.Publish("p1", Event{Action: ActionShared, ProductID: "p1"})

	select {
	case <-other:
		t.Fatal("event leaked into another room")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub(zap.NewNop())

	ch := hub.Subscribe("p1")
	defer hub.Unsubscribe("p1", ch)

	done := make(chan struct{})
	go func() {
		// Nobody drains ch; publishing past the buffer must drop, not block.
		for i := 0; i < subscriberBuffer*3; i++ {
			hub.Publish("p1", Event{Action: ActionUpdated, ProductID: "p1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub(zap.NewNop())

	ch := hub.Subscribe("p1")
	assert.Equal(t, 1, hub.SubscriberCount("p1"))

	hub.Unsubscribe("p1", ch)
	assert.Equal(t, 0, hub.SubscriberCount("p1"))

	_, open := <-ch
	assert.False(t, open)

	// Double unsubscribe is a no-op.
	hub.Unsubscribe("p1", ch)
}
