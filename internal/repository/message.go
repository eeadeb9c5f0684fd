package repository

import (
	"context"

	"whisperlink/internal/domain"
)

// MessageRepository exposes persistence operations for Message aggregates.
// FindOwned is the authorization primitive: it resolves a message only when
// it belongs to the given receiver, so callers cannot distinguish a foreign
// message from a missing one.
type MessageRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, message *domain.Message) error
	ListByReceiver(ctx context.Context, receiverID string) ([]domain.Message, error)
	FindOwned(ctx context.Context, id, receiverID string) (*domain.Message, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
