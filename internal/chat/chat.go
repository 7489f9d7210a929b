// Package chat holds the per-room message logs behind the polling chat
// widget. Rooms come into existence on first reference; messages are
// append-only and carry a 1-based sequence id assigned at append time. There
// is no delivery acknowledgement and no dedup.
package chat

import (
	"context"

	"github.com/hussain2580/school-mangment/internal/model"
)

type Registry interface {
	// Append stores the message in the room's log, assigning the next
	// sequence id. The room is created if it has not been seen before.
	Append(ctx context.Context, roomID string, msg model.ChatMessage) (model.ChatMessage, error)
	// Messages returns the room's log in append order. An unseen room
	// yields an empty log, never an error.
	Messages(ctx context.Context, roomID string) ([]model.ChatMessage, error)
}
