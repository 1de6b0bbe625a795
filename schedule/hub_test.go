package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomID(t *testing.T) {
	assert.Equal(t, "tournament_trn1", RoomID("trn1"))
}

func TestHub_BroadcastReachesRoomClients(t *testing.T) {
	hub := NewHub(discardLogger())
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 4), Room: RoomID("trn1")}
	hub.Register <- client

	// Registration is handled asynchronously, so retry until the room exists.
	var received []byte
	require.Eventually(t, func() bool {
		hub.BroadcastToRoom(RoomID("trn1"), EventMatchScored, map[string]string{"matchId": "group-a-1"})
		select {
		case raw := <-client.Send:
			received = raw
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	var event Event
	require.NoError(t, json.Unmarshal(received, &event))
	assert.Equal(t, EventMatchScored, event.Type)
	assert.Equal(t, "tournament_trn1", event.RoomID)
	assert.Equal(t, map[string]interface{}{"matchId": "group-a-1"}, event.Payload)
}

func TestHub_BroadcastToEmptyRoom(t *testing.T) {
	hub := NewHub(discardLogger())
	assert.NotPanics(t, func() {
		hub.BroadcastToRoom(RoomID("nobody"), EventScheduleGenerated, nil)
	})
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(discardLogger())
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 4), Room: RoomID("trn1")}
	hub.Register <- client
	hub.Unregister <- client

	require.Eventually(t, func() bool {
		select {
		case _, open := <-client.Send:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestHub_FullClientBufferDoesNotBlock(t *testing.T) {
	hub := NewHub(discardLogger())
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 1), Room: RoomID("trn1")}
	hub.Register <- client

	require.Eventually(t, func() bool {
		hub.BroadcastToRoom(RoomID("trn1"), EventStandingsUpdated, "first")
		return len(client.Send) == 1
	}, time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		hub.BroadcastToRoom(RoomID("trn1"), EventStandingsUpdated, "second")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full client buffer")
	}
}
