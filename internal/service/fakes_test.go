package service

import (
	"context"

	"whisperlink/internal/domain"
	"whisperlink/internal/repository"
)

// In-memory repository fakes. They mirror the sqlite contracts closely
// enough for action-level tests: uniqueness on email/username, not-found on
// missing rows, and newest-first listing.

type fakeUserRepo struct {
	users []*domain.User
}

func (f *fakeUserRepo) Init(ctx context.Context) error { return nil }

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return &repository.ConflictError{Field: "email"}
		}
		if u.Username == user.Username {
			return &repository.ConflictError{Field: "username"}
		}
	}
	clone := *user
	f.users = append(f.users, &clone)
	return nil
}

func (f *fakeUserRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeMessageRepo struct {
	messages []*domain.Message
}

func (f *fakeMessageRepo) Init(ctx context.Context) error { return nil }

func (f *fakeMessageRepo) Create(ctx context.Context, message *domain.Message) error {
	clone := *message
	f.messages = append(f.messages, &clone)
	return nil
}

// ListByReceiver returns newest first, matching the sqlite ordering contract.
func (f *fakeMessageRepo) ListByReceiver(ctx context.Context, receiverID string) ([]domain.Message, error) {
	var out []domain.Message
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].ReceiverID == receiverID {
			out = append(out, *f.messages[i])
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) FindOwned(ctx context.Context, id, receiverID string) (*domain.Message, error) {
	for _, m := range f.messages {
		if m.ID == id && m.ReceiverID == receiverID {
			clone := *m
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMessageRepo) MarkRead(ctx context.Context, id string) error {
	for _, m := range f.messages {
		if m.ID == id {
			m.IsRead = true
		}
	}
	return nil
}

func (f *fakeMessageRepo) Delete(ctx context.Context, id string) error {
	for i, m := range f.messages {
		if m.ID == id {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeMessageRepo) get(id string) *domain.Message {
	for _, m := range f.messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}
