package services

import (
	"context"
	"testing"

	"dropby_server/models"
)

func newNotificationService(deliverer *fakeDeliverer) *NotificationService {
	users := newMemUserStore(
		models.UserRecord{UserID: "alice", FirstName: "Alice", PhotoKey: "photos/alice.jpg"},
		models.UserRecord{UserID: "bob", FirstName: "Bob"},
	)
	return &NotificationService{
		Deliverer: deliverer,
		Directory: &UserProfileService{Users: users, Photos: stubSigner{}},
	}
}

func TestNotifyMatchDescribesTheOtherUser(t *testing.T) {
	deliverer := newFakeDeliverer("alice", "bob")
	service := newNotificationService(deliverer)
	match := models.Match{SwipeID: "s1", MutualSwipeID: "s2", MatchedAt: "2025-06-01T12:00:00Z"}

	if !service.NotifyMatch(context.Background(), "alice", "bob", match, "chat_alice_bob") {
		t.Fatal("both users are online, delivery must report success")
	}

	aliceEvents := deliverer.eventsFor("alice")
	if len(aliceEvents) != 1 || aliceEvents[0].Event != models.EventNewMatch {
		t.Fatalf("expected one new_match for alice, got %v", aliceEvents)
	}
	payload := aliceEvents[0].Payload.(MatchEvent)
	if payload.MatchedUserID != "bob" || payload.MatchedUserName != "Bob" {
		t.Fatalf("alice's event must describe bob, got %+v", payload)
	}
	if payload.RoomID != "chat_alice_bob" || payload.MatchedAt != match.MatchedAt {
		t.Fatalf("event payload incomplete: %+v", payload)
	}

	bobPayload := deliverer.eventsFor("bob")[0].Payload.(MatchEvent)
	if bobPayload.MatchedUserID != "alice" {
		t.Fatalf("bob's event must describe alice, got %+v", bobPayload)
	}
	if bobPayload.MatchedUserPhoto != "https://cdn.test/photos/alice.jpg" {
		t.Fatalf("event must carry the resolved photo url, got %q", bobPayload.MatchedUserPhoto)
	}
}

func TestNotifyMatchSkipsOfflineUsers(t *testing.T) {
	deliverer := newFakeDeliverer("alice")
	service := newNotificationService(deliverer)

	// Must not panic; bob is skipped and the miss is reported.
	if service.NotifyMatch(context.Background(), "alice", "bob", models.Match{MatchedAt: "2025-06-01T12:00:00Z"}, "") {
		t.Fatal("an undelivered event must report failure")
	}

	if len(deliverer.eventsFor("alice")) != 1 {
		t.Fatal("online user must still be notified")
	}
	if len(deliverer.eventsFor("bob")) != 0 {
		t.Fatal("offline user gets nothing")
	}
}

func TestNotifyMatchSurvivesCardFailure(t *testing.T) {
	deliverer := newFakeDeliverer("alice", "ghost")
	service := newNotificationService(deliverer)

	// "ghost" has no profile; the lookup for alice's payload fails and
	// only that delivery is skipped.
	if service.NotifyMatch(context.Background(), "alice", "ghost", models.Match{MatchedAt: "2025-06-01T12:00:00Z"}, "") {
		t.Fatal("a skipped delivery must report failure")
	}

	if len(deliverer.eventsFor("alice")) != 0 {
		t.Fatal("alice's event needs ghost's card, delivery must be skipped")
	}
	if len(deliverer.eventsFor("ghost")) != 1 {
		t.Fatal("ghost's own event only needs alice's card and must go out")
	}
}
