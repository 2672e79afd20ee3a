// Package events publishes user lifecycle notifications after successful writes.
package events

import (
	"context"

	"usersadmin/internal/domain/models"
)

// Event topics.
const (
	TopicUserCreated = "users.user.created"
	TopicUserUpdated = "users.user.updated"
	TopicUserDeleted = "users.user.deleted"
)

type UserCreated struct {
	User models.User `json:"user"`
}

type UserUpdated struct {
	User    models.User    `json:"user"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type UserDeleted struct {
	UserID string      `json:"user_id"`
	User   models.User `json:"user"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
