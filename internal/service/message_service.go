package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"whisperlink/internal/auth"
	"whisperlink/internal/domain"
	"whisperlink/internal/repository"
	"whisperlink/internal/validation"
)

// MessageService coordinates anonymous feedback operations. Submit is the
// single public write path; everything else is scoped to the session owner.
type MessageService interface {
	Submit(ctx context.Context, receiverUsername, content string) (*domain.Message, error)
	ListForUser(ctx context.Context, session *auth.Session) ([]domain.Message, error)
	MarkRead(ctx context.Context, session *auth.Session, id string) error
	Delete(ctx context.Context, session *auth.Session, id string) error
}

type messageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
}

func NewMessageService(messages repository.MessageRepository, users repository.UserRepository) MessageService {
	return &messageService{
		messages: messages,
		users:    users,
	}
}

// Submit stores an anonymous message for the user behind the profile link.
// No authentication, and no sender identity of any kind is recorded.
func (s *messageService) Submit(ctx context.Context, receiverUsername, content string) (*domain.Message, error) {
	if verr := validation.ValidateMessage(validation.MessageInput{Content: content}); verr != nil {
		return nil, verr
	}

	receiver, err := s.users.GetByUsername(ctx, receiverUsername)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find receiver: %w", err)
	}

	message := &domain.Message{
		ID:         uuid.NewString(),
		Content:    content,
		ReceiverID: receiver.ID,
		IsRead:     false,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return message, nil
}

// ListForUser returns the caller's messages, most recent first.
func (s *messageService) ListForUser(ctx context.Context, session *auth.Session) ([]domain.Message, error) {
	if session == nil || session.UserID == "" {
		return nil, ErrNotAuthenticated
	}
	messages, err := s.messages.ListByReceiver(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// MarkRead flips the read flag on a message the caller owns. Marking an
// already-read message succeeds again; ownership is still resolved first.
func (s *messageService) MarkRead(ctx context.Context, session *auth.Session, id string) error {
	message, err := s.resolveOwned(ctx, session, id)
	if err != nil {
		return err
	}
	if err := s.messages.MarkRead(ctx, message.ID); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

// Delete removes a message the caller owns.
func (s *messageService) Delete(ctx context.Context, session *auth.Session, id string) error {
	message, err := s.resolveOwned(ctx, session, id)
	if err != nil {
		return err
	}
	if err := s.messages.Delete(ctx, message.ID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// resolveOwned gates every mutation: a message owned by someone else reads
// as not found, never as forbidden.
func (s *messageService) resolveOwned(ctx context.Context, session *auth.Session, id string) (*domain.Message, error) {
	if session == nil || session.UserID == "" {
		return nil, ErrNotAuthenticated
	}
	message, err := s.messages.FindOwned(ctx, id, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return message, nil
}
