package utils

import "testing"

func TestPairKeyIsOrderInsensitive(t *testing.T) {
	if PairKey("bob", "alice") != "alice#bob" {
		t.Fatalf("expected alice#bob, got %q", PairKey("bob", "alice"))
	}
	if PairKey("alice", "bob") != PairKey("bob", "alice") {
		t.Fatal("pair key must not depend on argument order")
	}
}

func TestRoomIDIsOrderInsensitive(t *testing.T) {
	if RoomID("user2", "user1") != "chat_user1_user2" {
		t.Fatalf("expected chat_user1_user2, got %q", RoomID("user2", "user1"))
	}
	if RoomID("user1", "user2") != RoomID("user2", "user1") {
		t.Fatal("room id must not depend on argument order")
	}
}

func TestDistanceKm(t *testing.T) {
	// New York to London, roughly 5570km.
	got := DistanceKm(40.7128, -74.0060, 51.5074, -0.1278)
	if got < 5500 || got > 5600 {
		t.Fatalf("expected ~5570km, got %f", got)
	}
	if DistanceKm(40.0, -74.0, 40.0, -74.0) != 0 {
		t.Fatal("distance to the same point must be zero")
	}
}
