package events

import (
	"testing"
	"time"

	"token-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	h := NewHub(logger.NewLogger("error", ""))
	require.NoError(t, h.Start())
	t.Cleanup(h.Stop)
	return h
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return h.ClientCount() == n
	}, time.Second, 5*time.Millisecond)
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case event, ok := <-c.Events():
		require.True(t, ok, "client channel closed unexpectedly")
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestPublishReachesSubscribers(t *testing.T) {
	h := newTestHub(t)

	first := h.Subscribe()
	second := h.Subscribe()
	waitForClients(t, h, 2)

	h.Publish("login_failed", map[string]string{"username": "alice"})

	for _, c := range []*Client{first, second} {
		event := receiveEvent(t, c)
		assert.Equal(t, "login_failed", event.Type)
		assert.NotZero(t, event.Timestamp)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := newTestHub(t)

	client := h.Subscribe()
	waitForClients(t, h, 1)

	h.Unsubscribe(client)
	waitForClients(t, h, 0)

	select {
	case _, ok := <-client.Events():
		assert.False(t, ok, "channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("channel was not closed")
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	h := newTestHub(t)

	slow := h.Subscribe()
	waitForClients(t, h, 1)
	_ = slow // never drained

	// Overflow the client's buffer
	for i := 0; i < 32; i++ {
		h.Publish("token_verification_failed", nil)
	}

	waitForClients(t, h, 0)
}

func TestStopClosesAllClients(t *testing.T) {
	h := NewHub(logger.NewLogger("error", ""))
	require.NoError(t, h.Start())

	client := h.Subscribe()
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Stop()
	assert.False(t, h.IsRunning())

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-client.Events():
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestDoubleStartFails(t *testing.T) {
	h := newTestHub(t)
	assert.Error(t, h.Start())
}
