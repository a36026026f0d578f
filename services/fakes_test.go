package services

import (
	"context"
	"sync"
	"time"

	"dropby_server/models"
)

// The fakes below mirror the conditional-write semantics of the Dynamo
// repositories: inserts claim a slot under a mutex and fail with the
// same sentinels, so race reconciliation behaves like production.

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type memSwipeStore struct {
	mu     sync.Mutex
	swipes map[string]models.Swipe
}

func newMemSwipeStore() *memSwipeStore {
	return &memSwipeStore{swipes: make(map[string]models.Swipe)}
}

func swipeKey(swiperID, targetUserID string) string {
	return swiperID + "|" + targetUserID
}

func (s *memSwipeStore) InsertSwipe(_ context.Context, swipe *models.Swipe, now string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := swipeKey(swipe.SwiperID, swipe.TargetUserID)
	if existing, ok := s.swipes[key]; ok {
		if existing.IsActive || existing.CooldownExpiresAt >= now {
			return ErrSwipeSlotTaken
		}
	}
	s.swipes[key] = *swipe
	return nil
}

func (s *memSwipeStore) GetSwipe(_ context.Context, swiperID, targetUserID string) (*models.Swipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if swipe, ok := s.swipes[swipeKey(swiperID, targetUserID)]; ok {
		return &swipe, nil
	}
	return nil, nil
}

func (s *memSwipeStore) ListBySwiper(_ context.Context, swiperID string) ([]models.Swipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Swipe
	for _, swipe := range s.swipes {
		if swipe.SwiperID == swiperID {
			out = append(out, swipe)
		}
	}
	return out, nil
}

func (s *memSwipeStore) DeactivateSwipe(_ context.Context, swiperID, targetUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := swipeKey(swiperID, targetUserID)
	swipe, ok := s.swipes[key]
	if !ok {
		return ErrItemNotFound
	}
	swipe.IsActive = false
	s.swipes[key] = swipe
	return nil
}

type memConnectionStore struct {
	mu    sync.Mutex
	conns map[string]models.Connection
}

func newMemConnectionStore() *memConnectionStore {
	return &memConnectionStore{conns: make(map[string]models.Connection)}
}

func (s *memConnectionStore) InsertConnection(_ context.Context, conn *models.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conns[conn.PairKey]; ok {
		return ErrConnectionExists
	}
	s.conns[conn.PairKey] = *conn
	return nil
}

func (s *memConnectionStore) GetByPair(_ context.Context, pairKey string) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conn, ok := s.conns[pairKey]; ok {
		return &conn, nil
	}
	return nil, nil
}

func (s *memConnectionStore) GetByID(_ context.Context, connectionID string) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conn := range s.conns {
		if conn.ConnectionID == connectionID {
			return &conn, nil
		}
	}
	return nil, nil
}

func (s *memConnectionStore) UpdateStatus(_ context.Context, pairKey, newStatus, respondedAt string, isActive bool) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.conns[pairKey]
	if !ok || conn.Status != models.StatusPending {
		return nil, ErrStaleTransition
	}
	conn.Status = newStatus
	conn.RespondedAt = respondedAt
	conn.IsActive = isActive
	s.conns[pairKey] = conn
	return &conn, nil
}

func (s *memConnectionStore) ListBySender(_ context.Context, senderID string) ([]models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Connection
	for _, conn := range s.conns {
		if conn.SenderID == senderID {
			out = append(out, conn)
		}
	}
	return out, nil
}

func (s *memConnectionStore) ListByReceiver(_ context.Context, receiverID string) ([]models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Connection
	for _, conn := range s.conns {
		if conn.ReceiverID == receiverID {
			out = append(out, conn)
		}
	}
	return out, nil
}

func (s *memConnectionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

type memChatRoomStore struct {
	mu    sync.Mutex
	rooms map[string]models.ChatRoom
}

func newMemChatRoomStore() *memChatRoomStore {
	return &memChatRoomStore{rooms: make(map[string]models.ChatRoom)}
}

func copyRoom(room models.ChatRoom) *models.ChatRoom {
	counts := make(map[string]int, len(room.UnreadCounts))
	for k, v := range room.UnreadCounts {
		counts[k] = v
	}
	room.UnreadCounts = counts
	if room.LastMessage != nil {
		preview := *room.LastMessage
		room.LastMessage = &preview
	}
	return &room
}

func (s *memChatRoomStore) InsertRoom(_ context.Context, room *models.ChatRoom) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.PairKey]; ok {
		return ErrRoomExists
	}
	s.rooms[room.PairKey] = *copyRoom(*room)
	return nil
}

func (s *memChatRoomStore) GetByPair(_ context.Context, pairKey string) (*models.ChatRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[pairKey]; ok {
		return copyRoom(room), nil
	}
	return nil, nil
}

func (s *memChatRoomStore) GetByRoomID(_ context.Context, roomID string) (*models.ChatRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, room := range s.rooms {
		if room.RoomID == roomID {
			return copyRoom(room), nil
		}
	}
	return nil, nil
}

func (s *memChatRoomStore) ListForUser(_ context.Context, userID string) ([]models.ChatRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ChatRoom
	for _, room := range s.rooms {
		if room.ParticipantA == userID || room.ParticipantB == userID {
			out = append(out, *copyRoom(room))
		}
	}
	return out, nil
}

func (s *memChatRoomStore) SetLastMessage(_ context.Context, pairKey string, preview models.MessagePreview, unreadFor, updatedAt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[pairKey]
	if !ok {
		return ErrItemNotFound
	}
	room = *copyRoom(room)
	room.LastMessage = &preview
	room.UnreadCounts[unreadFor]++
	room.UpdatedAt = updatedAt
	s.rooms[pairKey] = room
	return nil
}

func (s *memChatRoomStore) ResetUnread(_ context.Context, pairKey, userID, updatedAt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[pairKey]
	if !ok {
		return ErrItemNotFound
	}
	room = *copyRoom(room)
	room.UnreadCounts[userID] = 0
	room.UpdatedAt = updatedAt
	s.rooms[pairKey] = room
	return nil
}

func (s *memChatRoomStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

type memLocationStore struct {
	mu    sync.Mutex
	pings []models.LocationPing
}

func newMemLocationStore() *memLocationStore { return &memLocationStore{} }

func (s *memLocationStore) InsertPing(_ context.Context, ping *models.LocationPing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pings = append(s.pings, *ping)
	return nil
}

func (s *memLocationStore) ActivePing(_ context.Context, userID, now string) (*models.LocationPing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.LocationPing
	for i := range s.pings {
		ping := s.pings[i]
		if ping.UserID != userID || !ping.IsActive || ping.ExpiresAt <= now {
			continue
		}
		if latest == nil || ping.DroppedAt > latest.DroppedAt {
			latest = &ping
		}
	}
	return latest, nil
}

func (s *memLocationStore) CountDropsSince(_ context.Context, userID, since string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, ping := range s.pings {
		if ping.UserID == userID && ping.DroppedAt >= since {
			count++
		}
	}
	return count, nil
}

func (s *memLocationStore) DeactivatePings(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deactivated := 0
	for i := range s.pings {
		if s.pings[i].UserID == userID && s.pings[i].IsActive {
			s.pings[i].IsActive = false
			deactivated++
		}
	}
	return deactivated, nil
}

func (s *memLocationStore) ListActivePings(_ context.Context, now string) ([]models.LocationPing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LocationPing
	for _, ping := range s.pings {
		if ping.IsActive && ping.ExpiresAt > now {
			out = append(out, ping)
		}
	}
	return out, nil
}

type memUserStore struct {
	mu    sync.Mutex
	users map[string]models.UserRecord
}

func newMemUserStore(users ...models.UserRecord) *memUserStore {
	s := &memUserStore{users: make(map[string]models.UserRecord)}
	for _, u := range users {
		s.users[u.UserID] = u
	}
	return s
}

func (s *memUserStore) FindUser(_ context.Context, userID string) (*models.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[userID]; ok {
		return &user, nil
	}
	return nil, nil
}

func (s *memUserStore) ApplyUpdate(_ context.Context, userID string, update models.ProfileUpdate) (*models.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, ErrItemNotFound
	}
	switch u := update.(type) {
	case models.SetDisplayName:
		user.FirstName = u.FirstName
		user.LastName = u.LastName
	case models.SetBio:
		user.Bio = u.Bio
	case models.SetPrimaryPhoto:
		user.PhotoKey = u.PhotoKey
	case models.SetGender:
		user.Gender = u.Gender
	default:
		return nil, &ValidationError{Reason: "unsupported profile update"}
	}
	s.users[userID] = user
	return &user, nil
}

type stubSigner struct{}

func (stubSigner) PhotoURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return "https://cdn.test/" + key, nil
}

type deliveredEvent struct {
	Event   string
	Payload interface{}
}

// fakeDeliverer records events per recipient. Users are offline unless
// marked online.
type fakeDeliverer struct {
	mu     sync.Mutex
	online map[string]bool
	events map[string][]deliveredEvent
}

func newFakeDeliverer(onlineUsers ...string) *fakeDeliverer {
	d := &fakeDeliverer{
		online: make(map[string]bool),
		events: make(map[string][]deliveredEvent),
	}
	for _, u := range onlineUsers {
		d.online[u] = true
	}
	return d
}

func (d *fakeDeliverer) DeliverToUser(userID, event string, payload interface{}) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.online[userID] {
		return false
	}
	d.events[userID] = append(d.events[userID], deliveredEvent{Event: event, Payload: payload})
	return true
}

func (d *fakeDeliverer) eventsFor(userID string) []deliveredEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]deliveredEvent(nil), d.events[userID]...)
}
