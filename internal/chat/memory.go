package chat

import (
	"context"
	"sync"
	"time"

	"github.com/hussain2580/school-mangment/internal/model"
)

// MemoryRegistry keeps rooms for the lifetime of the process. State is lost
// on restart.
type MemoryRegistry struct {
	mu    sync.Mutex
	rooms map[string]*model.ChatRoom
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{rooms: make(map[string]*model.ChatRoom)}
}

func (r *MemoryRegistry) getOrCreate(roomID string) *model.ChatRoom {
	room, ok := r.rooms[roomID]
	if !ok {
		room = &model.ChatRoom{
			ID:        roomID,
			Messages:  []model.ChatMessage{},
			CreatedAt: time.Now().UTC(),
		}
		r.rooms[roomID] = room
	}
	return room
}

func (r *MemoryRegistry) Append(_ context.Context, roomID string, msg model.ChatMessage) (model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.getOrCreate(roomID)
	msg.ID = len(room.Messages) + 1
	room.Messages = append(room.Messages, msg)
	return msg, nil
}

func (r *MemoryRegistry) Messages(_ context.Context, roomID string) ([]model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.getOrCreate(roomID)
	out := make([]model.ChatMessage, len(room.Messages))
	copy(out, room.Messages)
	return out, nil
}
