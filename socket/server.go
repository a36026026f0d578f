package socket

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"dropby_server/models"
	"dropby_server/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	socketio "github.com/googollee/go-socket.io"
)

const namespace = "/"

// Hub wraps the socket.io server. Every authenticated connection joins
// its personal "user_<id>" room, so delivering to a user is a room
// broadcast and online means the room is non-empty. Hub implements
// services.Deliverer.
type Hub struct {
	server *socketio.Server
	chat   *services.ChatService
	secret []byte
}

// NewHub builds the socket.io server and registers all event handlers.
func NewHub(chat *services.ChatService, jwtSecret []byte) *Hub {
	h := &Hub{
		server: socketio.NewServer(nil),
		chat:   chat,
		secret: jwtSecret,
	}

	h.server.OnConnect(namespace, func(s socketio.Conn) error {
		userID, err := h.authenticate(s)
		if err != nil {
			log.Printf("❌ Socket auth failed for %s: %v", s.ID(), err)
			return err
		}
		s.SetContext(userID)
		s.Join(userRoom(userID))
		log.Printf("✅ Socket connected: %s (user %s)", s.ID(), userID)
		return nil
	})

	h.server.OnEvent(namespace, "join_room", func(s socketio.Conn, roomID string) {
		userID := connUser(s)
		ctx, cancel := handlerContext()
		defer cancel()

		if _, err := h.chat.GetRoomForUser(ctx, roomID, userID); err != nil {
			s.Emit(models.EventError, map[string]string{"message": err.Error()})
			return
		}
		s.Join(roomID)
		s.Emit(models.EventRoomJoined, map[string]string{"roomId": roomID})
		h.DeliverToRoom(roomID, models.EventUserJoined, map[string]string{
			"roomId": roomID,
			"userId": userID,
		})
	})

	h.server.OnEvent(namespace, "leave_room", func(s socketio.Conn, roomID string) {
		userID := connUser(s)
		s.Leave(roomID)
		s.Emit(models.EventRoomLeft, map[string]string{"roomId": roomID})
		h.DeliverToRoom(roomID, models.EventUserLeft, map[string]string{
			"roomId": roomID,
			"userId": userID,
		})
	})

	h.server.OnEvent(namespace, "send_message", func(s socketio.Conn, payload messagePayload) {
		userID := connUser(s)
		if payload.Content == "" {
			s.Emit(models.EventError, map[string]string{"message": "message content is required"})
			return
		}

		ctx, cancel := handlerContext()
		defer cancel()

		if _, err := h.chat.RecordMessagePreview(ctx, payload.RoomID, userID, payload.Content); err != nil {
			s.Emit(models.EventError, map[string]string{"message": err.Error()})
			return
		}

		messageID := uuid.NewString()
		h.DeliverToRoom(payload.RoomID, models.EventNewMessage, map[string]interface{}{
			"id":        messageID,
			"roomId":    payload.RoomID,
			"senderId":  userID,
			"content":   payload.Content,
			"timestamp": services.FormatTime(time.Now()),
		})
		s.Emit(models.EventMessageSent, map[string]string{
			"messageId": messageID,
			"status":    "sent",
		})
	})

	h.server.OnEvent(namespace, "typing_start", func(s socketio.Conn, roomID string) {
		h.DeliverToRoom(roomID, models.EventTyping, map[string]string{
			"roomId": roomID,
			"userId": connUser(s),
		})
	})

	h.server.OnEvent(namespace, "typing_stop", func(s socketio.Conn, roomID string) {
		h.DeliverToRoom(roomID, models.EventStoppedTyping, map[string]string{
			"roomId": roomID,
			"userId": connUser(s),
		})
	})

	h.server.OnEvent(namespace, "mark_read", func(s socketio.Conn, roomID string) {
		userID := connUser(s)
		ctx, cancel := handlerContext()
		defer cancel()

		if err := h.chat.MarkRead(ctx, roomID, userID); err != nil {
			s.Emit(models.EventError, map[string]string{"message": err.Error()})
			return
		}
		h.DeliverToRoom(roomID, models.EventMessagesRead, map[string]string{
			"roomId": roomID,
			"userId": userID,
		})
	})

	h.server.OnError(namespace, func(s socketio.Conn, err error) {
		log.Printf("❌ Socket error: %v", err)
	})

	h.server.OnDisconnect(namespace, func(s socketio.Conn, reason string) {
		log.Printf("👋 Socket disconnected: %s (%s)", s.ID(), reason)
	})

	return h
}

type messagePayload struct {
	RoomID  string `json:"roomId"`
	Content string `json:"content"`
}

// Serve runs the socket.io event loop; call in a goroutine.
func (h *Hub) Serve() error { return h.server.Serve() }

// Close shuts the server down.
func (h *Hub) Close() error { return h.server.Close() }

// Server exposes the underlying handler for mounting at /socket.io/.
func (h *Hub) Server() *socketio.Server { return h.server }

// DeliverToUser emits an event to every live session of a user. Returns
// false when the user has no active session.
func (h *Hub) DeliverToUser(userID, event string, payload interface{}) bool {
	room := userRoom(userID)
	if h.server.RoomLen(namespace, room) == 0 {
		return false
	}
	h.server.BroadcastToRoom(namespace, room, event, payload)
	return true
}

// DeliverToRoom emits an event to everyone joined to a chat room.
func (h *Hub) DeliverToRoom(roomID, event string, payload interface{}) {
	h.server.BroadcastToRoom(namespace, roomID, event, payload)
}

func (h *Hub) authenticate(s socketio.Conn) (string, error) {
	u := s.URL()
	tokenString := u.Query().Get("token")
	if tokenString == "" {
		tokenString = strings.TrimPrefix(s.RemoteHeader().Get("Authorization"), "Bearer ")
	}
	if tokenString == "" {
		return "", fmt.Errorf("token required")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return h.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	userID, _ := claims["userId"].(string)
	if userID == "" {
		return "", fmt.Errorf("token missing userId")
	}
	return userID, nil
}

func connUser(s socketio.Conn) string {
	userID, _ := s.Context().(string)
	return userID
}

func userRoom(userID string) string { return "user_" + userID }

func handlerContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
