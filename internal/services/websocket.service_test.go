package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageWhileUnregistering(t *testing.T) {
	hub := InitWebSocketHub()
	t.Cleanup(func() {
		StopWebSocketHub()
		wsHub = nil
	})

	for round := 0; round < 50; round++ {
		client := &ClientConnection{ID: "c", Send: make(chan WebSocketMessage, 1)}
		hub.Register(client)
		require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				assert.NoError(t, SendMessage("c", WebSocketMessage{Type: EventScanStatus}))
			}
		}()
		go func() {
			defer wg.Done()
			hub.Unregister("c")
		}()
		wg.Wait()

		require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, time.Millisecond)
	}

	assert.NoError(t, SendMessage("gone", WebSocketMessage{Type: EventScanStatus}))
}
