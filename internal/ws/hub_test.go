package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/enum"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, channel string) *Client {
	return &Client{
		hub:     hub,
		channel: channel,
		send:    make(chan []byte, 256),
	}
}

func TestHubRegistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub, enum.ChannelContent)

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.rooms[enum.ChannelContent] == nil {
		t.Fatal("channel room not created")
	}
	if !hub.rooms[enum.ChannelContent][client] {
		t.Fatal("client not registered in channel room")
	}
}

func TestHubUnregistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub, enum.ChannelContent)

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	// Room should be cleaned up when empty
	if hub.rooms[enum.ChannelContent] != nil {
		t.Fatal("channel room not cleaned up after last client unregistered")
	}
}

func TestBroadcastChannelIsolation(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	contentClient := mockClient(hub, enum.ChannelContent)
	settingsClient := mockClient(hub, enum.ChannelSettings)

	hub.register <- contentClient
	hub.register <- settingsClient
	time.Sleep(10 * time.Millisecond)

	testPayload := json.RawMessage(`{"entity":"services"}`)
	hub.Broadcast(enum.ChannelContent, Event{
		Type:    "content.changed",
		Payload: testPayload,
	})

	select {
	case msg := <-contentClient.send:
		var received Event
		if err := json.Unmarshal(msg, &received); err != nil {
			t.Fatalf("failed to unmarshal message: %v", err)
		}
		if received.Type != "content.changed" {
			t.Errorf("expected type 'content.changed', got '%s'", received.Type)
		}
		if string(received.Payload) != string(testPayload) {
			t.Errorf("expected payload '%s', got '%s'", testPayload, received.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("content client did not receive message")
	}

	select {
	case <-settingsClient.send:
		t.Fatal("settings client should not have received a content event")
	case <-time.After(50 * time.Millisecond):
		// Expected - no message received
	}
}

func TestBroadcastToMultipleClientsInSameChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client1 := mockClient(hub, enum.ChannelSettings)
	client2 := mockClient(hub, enum.ChannelSettings)
	client3 := mockClient(hub, enum.ChannelSettings)

	hub.register <- client1
	hub.register <- client2
	hub.register <- client3
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(enum.ChannelSettings, Event{
		Type:    "settings.updated",
		Payload: json.RawMessage(`{"keys":["site_name"]}`),
	})

	clients := []*Client{client1, client2, client3}
	for i, client := range clients {
		select {
		case msg := <-client.send:
			var received Event
			if err := json.Unmarshal(msg, &received); err != nil {
				t.Fatalf("client%d: failed to unmarshal: %v", i+1, err)
			}
			if received.Type != "settings.updated" {
				t.Errorf("client%d: expected type 'settings.updated', got '%s'", i+1, received.Type)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("client%d did not receive message", i+1)
		}
	}
}

func TestHubCleanupEmptyRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client1 := mockClient(hub, enum.ChannelContent)
	client2 := mockClient(hub, enum.ChannelContent)

	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	if len(hub.rooms[enum.ChannelContent]) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(hub.rooms[enum.ChannelContent]))
	}
	hub.mu.RUnlock()

	hub.unregister <- client1
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	if len(hub.rooms[enum.ChannelContent]) != 1 {
		t.Fatalf("expected 1 client after first unregister, got %d", len(hub.rooms[enum.ChannelContent]))
	}
	hub.mu.RUnlock()

	hub.unregister <- client2
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	if hub.rooms[enum.ChannelContent] != nil {
		t.Fatal("room should be deleted when last client unregisters")
	}
	hub.mu.RUnlock()
}

func TestBroadcastToEmptyChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub, enum.ChannelContent)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(enum.ChannelSettings, Event{
		Type:    "settings.updated",
		Payload: json.RawMessage(`{}`),
	})

	select {
	case <-client.send:
		t.Fatal("client should not receive message for different channel")
	case <-time.After(50 * time.Millisecond):
		// Expected - no message
	}
}
