package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"dropby_server/models"
)

func newChatService(t *testing.T) (*ChatService, *ConnectionService, *memChatRoomStore) {
	t.Helper()
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	users := newMemUserStore(
		models.UserRecord{UserID: "alice", FirstName: "Alice"},
		models.UserRecord{UserID: "bob", FirstName: "Bob"},
	)
	directory := &UserProfileService{Users: users, Photos: stubSigner{}}
	connections := newMemConnectionStore()
	rooms := newMemChatRoomStore()
	chat := &ChatService{Rooms: rooms, Connections: connections, Directory: directory, Clock: clock}
	conns := &ConnectionService{Connections: connections, Directory: directory, Clock: clock}
	return chat, conns, rooms
}

func connectPair(t *testing.T, conns *ConnectionService, a, b string) {
	t.Helper()
	if _, err := conns.CreateFromMatch(context.Background(), a, b); err != nil {
		t.Fatalf("CreateFromMatch(%s, %s): %v", a, b, err)
	}
}

func TestCreateOrGetRoomIsDeterministic(t *testing.T) {
	chat, conns, rooms := newChatService(t)
	ctx := context.Background()
	connectPair(t, conns, "alice", "bob")

	first, err := chat.CreateOrGetRoom(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("first CreateOrGetRoom: %v", err)
	}
	if first.RoomID != "chat_alice_bob" {
		t.Fatalf("expected deterministic room id, got %q", first.RoomID)
	}
	if first.ParticipantA != "alice" || first.ParticipantB != "bob" {
		t.Fatalf("participants must be sorted, got %s / %s", first.ParticipantA, first.ParticipantB)
	}

	// Reversed argument order lands on the same room.
	second, err := chat.CreateOrGetRoom(ctx, "bob", "alice")
	if err != nil {
		t.Fatalf("second CreateOrGetRoom: %v", err)
	}
	if second.RoomID != first.RoomID {
		t.Fatalf("expected the same room, got %q and %q", first.RoomID, second.RoomID)
	}
	if rooms.count() != 1 {
		t.Fatalf("expected one room, got %d", rooms.count())
	}
}

func TestCreateOrGetRoomNeedsActiveConnection(t *testing.T) {
	chat, conns, _ := newChatService(t)
	ctx := context.Background()

	var nferr *NotFoundError
	if _, err := chat.CreateOrGetRoom(ctx, "alice", "bob"); !errors.As(err, &nferr) {
		t.Fatalf("expected NotFoundError without a connection, got %v", err)
	}

	// A pending request is not enough.
	if _, err := conns.SendRequest(ctx, "alice", "bob", ""); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if _, err := chat.CreateOrGetRoom(ctx, "alice", "bob"); !errors.As(err, &nferr) {
		t.Fatalf("expected NotFoundError for a pending connection, got %v", err)
	}
}

func TestGetRoomForUserChecksMembership(t *testing.T) {
	chat, conns, _ := newChatService(t)
	ctx := context.Background()
	connectPair(t, conns, "alice", "bob")
	room, err := chat.CreateOrGetRoom(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("CreateOrGetRoom: %v", err)
	}

	if _, err := chat.GetRoomForUser(ctx, room.RoomID, "alice"); err != nil {
		t.Fatalf("participant lookup: %v", err)
	}
	var aerr *AuthorizationError
	if _, err := chat.GetRoomForUser(ctx, room.RoomID, "mallory"); !errors.As(err, &aerr) {
		t.Fatalf("expected AuthorizationError for a stranger, got %v", err)
	}
	var nferr *NotFoundError
	if _, err := chat.GetRoomForUser(ctx, "chat_no_such", "alice"); !errors.As(err, &nferr) {
		t.Fatalf("expected NotFoundError for unknown room, got %v", err)
	}
}

func TestRecordMessagePreviewTruncatesAndBumpsUnread(t *testing.T) {
	chat, conns, rooms := newChatService(t)
	ctx := context.Background()
	connectPair(t, conns, "alice", "bob")
	room, err := chat.CreateOrGetRoom(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("CreateOrGetRoom: %v", err)
	}

	long := strings.Repeat("x", models.PreviewMaxLen+40)
	if _, err := chat.RecordMessagePreview(ctx, room.RoomID, "alice", long); err != nil {
		t.Fatalf("RecordMessagePreview: %v", err)
	}

	stored, _ := rooms.GetByRoomID(ctx, room.RoomID)
	if stored.LastMessage == nil {
		t.Fatal("preview must be stored")
	}
	if len(stored.LastMessage.Content) != models.PreviewMaxLen {
		t.Fatalf("preview must be truncated to %d, got %d", models.PreviewMaxLen, len(stored.LastMessage.Content))
	}
	if stored.LastMessage.SenderID != "alice" {
		t.Fatalf("preview must record the sender, got %q", stored.LastMessage.SenderID)
	}
	if stored.UnreadCounts["bob"] != 1 || stored.UnreadCounts["alice"] != 0 {
		t.Fatalf("only the recipient's unread count bumps, got %v", stored.UnreadCounts)
	}

	if err := chat.MarkRead(ctx, room.RoomID, "bob"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	stored, _ = rooms.GetByRoomID(ctx, room.RoomID)
	if stored.UnreadCounts["bob"] != 0 {
		t.Fatalf("MarkRead must reset the count, got %d", stored.UnreadCounts["bob"])
	}
}

func TestRecordMessagePreviewKeepsRunesWhole(t *testing.T) {
	chat, conns, rooms := newChatService(t)
	ctx := context.Background()
	connectPair(t, conns, "alice", "bob")
	room, err := chat.CreateOrGetRoom(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("CreateOrGetRoom: %v", err)
	}

	// 1 + 50*3 bytes; the byte cap lands mid-rune.
	long := "a" + strings.Repeat("日", 50)
	if _, err := chat.RecordMessagePreview(ctx, room.RoomID, "alice", long); err != nil {
		t.Fatalf("RecordMessagePreview: %v", err)
	}

	stored, _ := rooms.GetByRoomID(ctx, room.RoomID)
	preview := stored.LastMessage.Content
	if !utf8.ValidString(preview) {
		t.Fatalf("preview must stay valid UTF-8, got %q", preview)
	}
	if len(preview) > models.PreviewMaxLen {
		t.Fatalf("preview exceeds %d bytes: %d", models.PreviewMaxLen, len(preview))
	}
	if want := "a" + strings.Repeat("日", 39); preview != want {
		t.Fatalf("expected truncation at the last whole rune, got %q", preview)
	}
}

func TestListRoomsForUser(t *testing.T) {
	chat, conns, _ := newChatService(t)
	ctx := context.Background()
	connectPair(t, conns, "alice", "bob")
	room, err := chat.CreateOrGetRoom(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("CreateOrGetRoom: %v", err)
	}
	if _, err := chat.RecordMessagePreview(ctx, room.RoomID, "bob", "see you there"); err != nil {
		t.Fatalf("RecordMessagePreview: %v", err)
	}

	summaries, err := chat.ListRoomsForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListRoomsForUser: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one room, got %d", len(summaries))
	}
	summary := summaries[0]
	if summary.RoomID != room.RoomID {
		t.Fatalf("wrong room, got %q", summary.RoomID)
	}
	if summary.OtherUser == nil || summary.OtherUser.UserID != "bob" {
		t.Fatalf("summary must name the other participant, got %+v", summary.OtherUser)
	}
	if summary.LastMessage == nil || summary.LastMessage.Content != "see you there" {
		t.Fatalf("summary must carry the preview, got %+v", summary.LastMessage)
	}
	if summary.UnreadCount != 1 {
		t.Fatalf("alice has one unread message, got %d", summary.UnreadCount)
	}
}
