package chat

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/hussain2580/school-mangment/internal/model"
)

// RedisRegistry stores each room as a Redis list of JSON-encoded messages,
// with a per-room counter supplying sequence ids. Logs survive a process
// restart but carry the same zero-guarantee semantics as the memory backend.
type RedisRegistry struct {
	client *redis.Client
}

func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client}
}

func messagesKey(roomID string) string { return "chat:messages:" + roomID }
func seqKey(roomID string) string      { return "chat:seq:" + roomID }

func (r *RedisRegistry) Append(ctx context.Context, roomID string, msg model.ChatMessage) (model.ChatMessage, error) {
	seq, err := r.client.Incr(ctx, seqKey(roomID)).Result()
	if err != nil {
		return model.ChatMessage{}, err
	}
	msg.ID = int(seq)

	payload, err := json.Marshal(msg)
	if err != nil {
		return model.ChatMessage{}, err
	}
	if err := r.client.RPush(ctx, messagesKey(roomID), payload).Err(); err != nil {
		return model.ChatMessage{}, err
	}
	return msg, nil
}

func (r *RedisRegistry) Messages(ctx context.Context, roomID string) ([]model.ChatMessage, error) {
	raw, err := r.client.LRange(ctx, messagesKey(roomID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	messages := make([]model.ChatMessage, 0, len(raw))
	for _, entry := range raw {
		var msg model.ChatMessage
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
