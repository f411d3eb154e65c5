package inspector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHubDeliversToSubscriber(t *testing.T) {
	h := NewHub()
	sub, ch := h.Subscribe()
	defer h.Unsubscribe(sub)

	h.Publish(Event{Type: EventKidokuRecorded, Data: map[string]any{"scene": 1}})

	select {
	case ev := <-ch:
		require.Equal(t, EventKidokuRecorded, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	sub, ch := h.Subscribe()
	require.Equal(t, 1, h.SubscriberCount())

	h.Unsubscribe(sub)
	require.Equal(t, 0, h.SubscriberCount())

	_, ok := <-ch
	require.False(t, ok)
}

func TestHubDropsEventForFullSlowSubscriber(t *testing.T) {
	h := NewHub()
	sub, _ := h.Subscribe()
	defer h.Unsubscribe(sub)

	for i := 0; i < 1000; i++ {
		h.Publish(Event{Type: EventObjectAdded})
	}
	// Channel buffer is bounded; this must not block or panic.
}

func TestHubPublishWithNoSubscribersIsNoop(t *testing.T) {
	h := NewHub()
	require.NotPanics(t, func() {
		h.Publish(Event{Type: EventMutatorFinished})
	})
}
