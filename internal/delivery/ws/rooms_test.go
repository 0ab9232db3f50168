package ws

import "testing"

func TestRoomID_OrderIndependent(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"u-42", "u-7"},
		{"same", "same"},
		{"", "x"},
	}

	for _, p := range pairs {
		if RoomID(p[0], p[1]) != RoomID(p[1], p[0]) {
			t.Errorf("RoomID(%q,%q) != RoomID(%q,%q)", p[0], p[1], p[1], p[0])
		}
	}

	if got := RoomID("bob", "alice"); got != "alice:bob" {
		t.Errorf("Expected alice:bob, got %q", got)
	}
}

func TestRoomRouter_JoinAndBroadcast(t *testing.T) {
	rr := NewRoomRouter()
	a := newMockClient()
	b := newMockClient()
	outsider := newMockClient()

	rr.Join(a, "alice", "bob")
	rr.Join(b, "bob", "alice") // reversed order, same room

	rr.Broadcast("alice", "bob", []byte("hi"))

	for i, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			if string(msg) != "hi" {
				t.Errorf("Member %d got %q", i, msg)
			}
		default:
			t.Errorf("Member %d received nothing", i)
		}
	}

	select {
	case <-outsider.send:
		t.Error("Outsider should receive nothing")
	default:
	}
}

func TestRoomRouter_JoinIdempotent(t *testing.T) {
	rr := NewRoomRouter()
	a := newMockClient()

	rr.Join(a, "alice", "bob")
	rr.Join(a, "alice", "bob")

	if rr.MemberCount("alice", "bob") != 1 {
		t.Errorf("Expected 1 member, got %d", rr.MemberCount("alice", "bob"))
	}

	rr.Broadcast("alice", "bob", []byte("once"))
	<-a.send
	select {
	case <-a.send:
		t.Error("Expected exactly one delivery after double join")
	default:
	}
}

func TestRoomRouter_BroadcastExcept(t *testing.T) {
	rr := NewRoomRouter()
	a := newMockClient()
	b := newMockClient()

	rr.Join(a, "alice", "bob")
	rr.Join(b, "bob", "alice")

	rr.BroadcastExcept("alice", "bob", a, []byte("typing"))

	select {
	case <-a.send:
		t.Error("Sender should be excluded")
	default:
	}
	select {
	case <-b.send:
	default:
		t.Error("Other member should receive the event")
	}
}

func TestRoomRouter_LeaveRemovesFromAllRooms(t *testing.T) {
	rr := NewRoomRouter()
	a := newMockClient()

	// One connection joined to multiple pair rooms
	rr.Join(a, "alice", "bob")
	rr.Join(a, "alice", "carol")

	rr.Leave(a)

	if rr.MemberCount("alice", "bob") != 0 {
		t.Error("Expected alice:bob room to be empty")
	}
	if rr.MemberCount("alice", "carol") != 0 {
		t.Error("Expected alice:carol room to be empty")
	}

	rr.Broadcast("alice", "bob", []byte("gone"))
	select {
	case <-a.send:
		t.Error("Left connection should receive nothing")
	default:
	}

	// Leaving twice is fine
	rr.Leave(a)
}
