package ws

import (
	"sync"
	"testing"
)

// newMockClient creates a client without an actual websocket connection
// suitable for testing
func newMockClient() *Client {
	return &Client{
		send: make(chan []byte, 256),
	}
}

func TestRegistry_FirstRegisterGoesOnline(t *testing.T) {
	r := NewRegistry()
	c := newMockClient()

	changes := r.Register(c, "alice")

	if len(changes) != 1 {
		t.Fatalf("Expected 1 presence change, got %d", len(changes))
	}
	if changes[0].UserID != "alice" || !changes[0].Online {
		t.Errorf("Expected alice online, got %+v", changes[0])
	}
	if !r.IsOnline("alice") {
		t.Error("Expected alice to be online")
	}
}

func TestRegistry_SecondConnectionNoFlip(t *testing.T) {
	r := NewRegistry()
	c1 := newMockClient()
	c2 := newMockClient()

	r.Register(c1, "alice")
	changes := r.Register(c2, "alice")

	if len(changes) != 0 {
		t.Errorf("Expected no presence change on second connection, got %+v", changes)
	}
	if r.ConnectionCount("alice") != 2 {
		t.Errorf("Expected 2 connections, got %d", r.ConnectionCount("alice"))
	}
}

func TestRegistry_RegisterIdempotent(t *testing.T) {
	r := NewRegistry()
	c := newMockClient()

	r.Register(c, "alice")
	changes := r.Register(c, "alice")

	if len(changes) != 0 {
		t.Errorf("Expected no changes on re-register, got %+v", changes)
	}
	if r.ConnectionCount("alice") != 1 {
		t.Errorf("Expected 1 connection, got %d", r.ConnectionCount("alice"))
	}
}

func TestRegistry_ReassociateHandle(t *testing.T) {
	r := NewRegistry()
	c := newMockClient()

	r.Register(c, "alice")
	changes := r.Register(c, "bob")

	if len(changes) != 2 {
		t.Fatalf("Expected 2 presence changes, got %+v", changes)
	}
	if changes[0].UserID != "alice" || changes[0].Online {
		t.Errorf("Expected alice offline first, got %+v", changes[0])
	}
	if changes[1].UserID != "bob" || !changes[1].Online {
		t.Errorf("Expected bob online second, got %+v", changes[1])
	}
	if r.IsOnline("alice") {
		t.Error("Expected alice to be offline after re-association")
	}
	if !r.IsOnline("bob") {
		t.Error("Expected bob to be online")
	}
}

func TestRegistry_LastUnregisterGoesOffline(t *testing.T) {
	r := NewRegistry()
	c1 := newMockClient()
	c2 := newMockClient()

	r.Register(c1, "alice")
	r.Register(c2, "alice")

	// One of two connections dropping must not flip presence
	changes := r.Unregister(c1)
	if len(changes) != 0 {
		t.Errorf("Expected no flip with a connection remaining, got %+v", changes)
	}
	if !r.IsOnline("alice") {
		t.Error("Expected alice to still be online")
	}

	changes = r.Unregister(c2)
	if len(changes) != 1 || changes[0].Online {
		t.Fatalf("Expected single offline flip, got %+v", changes)
	}
	if r.IsOnline("alice") {
		t.Error("Expected alice to be offline")
	}
}

func TestRegistry_UnregisterUnknownIsNoop(t *testing.T) {
	r := NewRegistry()

	changes := r.Unregister(newMockClient())
	if len(changes) != 0 {
		t.Errorf("Expected no changes for unknown handle, got %+v", changes)
	}
}

func TestRegistry_BalancedRegistersEndOffline(t *testing.T) {
	r := NewRegistry()

	clients := make([]*Client, 5)
	for i := range clients {
		clients[i] = newMockClient()
		r.Register(clients[i], "alice")
	}
	// Interleaved removal order
	for _, i := range []int{2, 0, 4, 1, 3} {
		r.Unregister(clients[i])
	}

	if r.IsOnline("alice") {
		t.Error("Expected alice offline after balanced register/unregister")
	}
	if r.ConnectionCount("alice") != 0 {
		t.Errorf("Expected 0 connections, got %d", r.ConnectionCount("alice"))
	}
}

func TestRegistry_ConcurrentRegistersFlipOnce(t *testing.T) {
	r := NewRegistry()

	const n = 50
	var wg sync.WaitGroup
	flips := make(chan PresenceChange, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, change := range r.Register(newMockClient(), "alice") {
				flips <- change
			}
		}()
	}
	wg.Wait()
	close(flips)

	count := 0
	for change := range flips {
		if change.UserID != "alice" || !change.Online {
			t.Errorf("Unexpected change %+v", change)
		}
		count++
	}
	if count != 1 {
		t.Errorf("Expected exactly one online flip, got %d", count)
	}
	if r.ConnectionCount("alice") != n {
		t.Errorf("Expected %d connections, got %d", n, r.ConnectionCount("alice"))
	}
}

func TestRegistry_SendToUser(t *testing.T) {
	r := NewRegistry()
	c1 := newMockClient()
	c2 := newMockClient()
	other := newMockClient()

	r.Register(c1, "alice")
	r.Register(c2, "alice")
	r.Register(other, "bob")

	r.SendToUser("alice", []byte("hello"))

	for i, c := range []*Client{c1, c2} {
		select {
		case msg := <-c.send:
			if string(msg) != "hello" {
				t.Errorf("Connection %d got %q", i, msg)
			}
		default:
			t.Errorf("Connection %d received nothing", i)
		}
	}

	select {
	case msg := <-other.send:
		t.Errorf("bob should receive nothing, got %q", msg)
	default:
	}

	// Unknown user is a no-op, not an error
	r.SendToUser("nobody", []byte("hello"))
}

func TestRegistry_BroadcastAll(t *testing.T) {
	r := NewRegistry()
	clients := []*Client{newMockClient(), newMockClient(), newMockClient()}
	r.Register(clients[0], "alice")
	r.Register(clients[1], "alice")
	r.Register(clients[2], "bob")

	r.BroadcastAll([]byte("ping"))

	for i, c := range clients {
		select {
		case <-c.send:
		default:
			t.Errorf("Connection %d received nothing", i)
		}
	}
}
