package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
)

// RoomKeyStore hands out the per-room shared key clients use to encrypt
// message bodies. Keys are generated on first request and live until
// explicitly evicted; the store is a process-wide keyed store behind
// this interface, not a bare shared map.
type RoomKeyStore interface {
	EnsureKey(roomID string) (string, error)
	Evict(roomID string)
}

// MemoryKeyStore is the in-process RoomKeyStore.
type MemoryKeyStore struct {
	mu   sync.Mutex
	keys map[string]string
}

func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{keys: make(map[string]string)}
}

// EnsureKey returns the room's key, generating a 32-byte random one on
// first use.
func (ks *MemoryKeyStore) EnsureKey(roomID string) (string, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if key, ok := ks.keys[roomID]; ok {
		return key, nil
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate room key: %w", err)
	}
	key := base64.StdEncoding.EncodeToString(raw)
	ks.keys[roomID] = key
	return key, nil
}

// Evict removes the room's key; the next EnsureKey generates a fresh one.
func (ks *MemoryKeyStore) Evict(roomID string) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	delete(ks.keys, roomID)
}
