package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisperlink/internal/domain"
	"whisperlink/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestRepos(t *testing.T) (repository.UserRepository, repository.MessageRepository) {
	t.Helper()
	db := openTestDB(t)
	users := NewUserRepository(db)
	messages := NewMessageRepository(db)
	require.NoError(t, users.Init(context.Background()))
	require.NoError(t, messages.Init(context.Background()))
	return users, messages
}

func newUser(name, email, username string) *domain.User {
	return &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Username:     username,
		PasswordHash: "$2a$12$fakefakefakefakefakefake",
	}
}

func TestUserRepositoryCreateAndGet(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()

	alice := newUser("Alice", "alice@example.com", "alice")
	require.NoError(t, users.Create(ctx, alice))

	byEmail, err := users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	byUsername, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byUsername.ID)

	byID, err := users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Name)

	_, err = users.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepositoryFindByEmailOrUsername(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, newUser("Alice", "alice@example.com", "alice")))

	hit, err := users.FindByEmailOrUsername(ctx, "alice@example.com", "someone_else")
	require.NoError(t, err)
	assert.Equal(t, "alice", hit.Username)

	hit, err = users.FindByEmailOrUsername(ctx, "other@example.com", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", hit.Email)

	_, err = users.FindByEmailOrUsername(ctx, "other@example.com", "someone_else")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// The unique constraints are the final authority on registration races; the
// violated column must be identifiable from the error.
func TestUserRepositoryConflictNamesColumn(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, newUser("Alice", "alice@example.com", "alice")))

	err := users.Create(ctx, newUser("Mallory", "alice@example.com", "mallory"))
	var conflict *repository.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)

	err = users.Create(ctx, newUser("Mallory", "mallory@example.com", "alice"))
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "username", conflict.Field)
}

func seedMessage(t *testing.T, messages repository.MessageRepository, receiverID, content string, createdAt time.Time) *domain.Message {
	t.Helper()
	m := &domain.Message{
		ID:         uuid.NewString(),
		Content:    content,
		ReceiverID: receiverID,
		CreatedAt:  createdAt,
	}
	require.NoError(t, messages.Create(context.Background(), m))
	return m
}

func TestMessageRepositoryListNewestFirst(t *testing.T) {
	users, messages := newTestRepos(t)
	ctx := context.Background()

	alice := newUser("Alice", "alice@example.com", "alice")
	require.NoError(t, users.Create(ctx, alice))

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedMessage(t, messages, alice.ID, "A", base)
	seedMessage(t, messages, alice.ID, "B", base.Add(time.Minute))
	seedMessage(t, messages, alice.ID, "C", base.Add(2*time.Minute))

	listed, err := messages.ListByReceiver(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "C", listed[0].Content)
	assert.Equal(t, "B", listed[1].Content)
	assert.Equal(t, "A", listed[2].Content)
}

func TestMessageRepositoryListTiebreakOnEqualTimestamps(t *testing.T) {
	users, messages := newTestRepos(t)
	ctx := context.Background()

	alice := newUser("Alice", "alice@example.com", "alice")
	require.NoError(t, users.Create(ctx, alice))

	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedMessage(t, messages, alice.ID, "first", at)
	seedMessage(t, messages, alice.ID, "second", at)

	listed, err := messages.ListByReceiver(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "second", listed[0].Content)
	assert.Equal(t, "first", listed[1].Content)
}

func TestMessageRepositoryFindOwned(t *testing.T) {
	users, messages := newTestRepos(t)
	ctx := context.Background()

	alice := newUser("Alice", "alice@example.com", "alice")
	bob := newUser("Bob", "bob@example.com", "bob")
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))

	m := seedMessage(t, messages, alice.ID, "for alice", time.Now().UTC())

	owned, err := messages.FindOwned(ctx, m.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, owned.IsRead)

	// a foreign receiver gets the same answer as a missing id
	_, err = messages.FindOwned(ctx, m.ID, bob.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = messages.FindOwned(ctx, uuid.NewString(), alice.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMessageRepositoryMarkReadAndDelete(t *testing.T) {
	users, messages := newTestRepos(t)
	ctx := context.Background()

	alice := newUser("Alice", "alice@example.com", "alice")
	require.NoError(t, users.Create(ctx, alice))
	m := seedMessage(t, messages, alice.ID, "hello", time.Now().UTC())

	require.NoError(t, messages.MarkRead(ctx, m.ID))
	owned, err := messages.FindOwned(ctx, m.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, owned.IsRead)

	// marking again is a no-op that still succeeds
	require.NoError(t, messages.MarkRead(ctx, m.ID))

	require.NoError(t, messages.Delete(ctx, m.ID))
	_, err = messages.FindOwned(ctx, m.ID, alice.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
