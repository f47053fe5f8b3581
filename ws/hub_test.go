package ws

import (
	"encoding/json"
	"testing"
)

func drain(t *testing.T, c *Client) []Envelope {
	t.Helper()
	var got []Envelope
	for {
		select {
		case data := <-c.send:
			var env Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				t.Fatalf("bad envelope: %v", err)
			}
			got = append(got, env)
		default:
			return got
		}
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	h := NewHub()
	c := NewClient(nil, 1, "amy")

	h.Join("room-1", c)
	h.Join("room-1", c)

	if n := h.RoomSize("room-1"); n != 1 {
		t.Fatalf("expected 1 member after double join, got %d", n)
	}

	h.Broadcast("room-1", "receive-message", map[string]string{"content": "hi"})
	if events := drain(t, c); len(events) != 1 {
		t.Fatalf("expected exactly one delivery to double-joined client, got %d", len(events))
	}
}

func TestBroadcastIncludesSender(t *testing.T) {
	h := NewHub()
	x := NewClient(nil, 1, "x")
	y := NewClient(nil, 2, "y")
	z := NewClient(nil, 3, "z")
	for _, c := range []*Client{x, y, z} {
		h.Join("study", c)
	}

	h.Broadcast("study", "receive-message", map[string]any{"id": 7})

	for _, c := range []*Client{x, y, z} {
		events := drain(t, c)
		if len(events) != 1 {
			t.Fatalf("user %d: expected 1 event, got %d", c.UserID, len(events))
		}
		if events[0].Event != "receive-message" {
			t.Fatalf("user %d: unexpected event %q", c.UserID, events[0].Event)
		}
	}
}

func TestBroadcastExceptSkipsOrigin(t *testing.T) {
	h := NewHub()
	x := NewClient(nil, 1, "x")
	y := NewClient(nil, 2, "y")
	h.Join("study", x)
	h.Join("study", y)

	h.BroadcastExcept("study", x, "user-typing", map[string]any{"userId": 1})

	if events := drain(t, x); len(events) != 0 {
		t.Fatalf("typing signal echoed back to origin: %v", events)
	}
	events := drain(t, y)
	if len(events) != 1 || events[0].Event != "user-typing" {
		t.Fatalf("expected one user-typing for peer, got %v", events)
	}
}

func TestBroadcastDoesNotReachOtherRooms(t *testing.T) {
	h := NewHub()
	in := NewClient(nil, 1, "in")
	out := NewClient(nil, 2, "out")
	h.Join("a", in)
	h.Join("b", out)

	h.Broadcast("a", "receive-message", map[string]any{"id": 1})

	if events := drain(t, out); len(events) != 0 {
		t.Fatalf("message leaked across rooms: %v", events)
	}
}

func TestDisconnectRemovesFromAllRooms(t *testing.T) {
	h := NewHub()
	c := NewClient(nil, 1, "c")
	peer := NewClient(nil, 2, "p")
	h.Join("a", c)
	h.Join("b", c)
	h.Join("a", peer)

	h.Disconnect(c)

	if n := h.RoomSize("a"); n != 1 {
		t.Fatalf("expected 1 member left in room a, got %d", n)
	}
	if n := h.RoomSize("b"); n != 0 {
		t.Fatalf("expected room b empty, got %d", n)
	}

	// broadcasting after disconnect must not deliver to the closed client
	h.Broadcast("a", "receive-message", map[string]any{"id": 2})
	if events := drain(t, peer); len(events) != 1 {
		t.Fatalf("expected remaining member to still receive, got %v", events)
	}
}
