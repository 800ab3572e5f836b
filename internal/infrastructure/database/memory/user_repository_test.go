package memory

import (
	"context"
	"testing"
	"time"

	"job-board/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingUser(username, email, code string, expiry time.Time) *user.User {
	return &user.User{
		Username:         username,
		Email:            email,
		PasswordHash:     "hash",
		Role:             user.RoleApplicant,
		VerifyCode:       code,
		VerifyCodeExpiry: &expiry,
	}
}

func TestUserRepository_EmailIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	expiry := time.Now().Add(time.Hour)

	require.NoError(t, repo.Create(ctx, newPendingUser("alice", "a@x.com", "123456", expiry)))
	err := repo.Create(ctx, newPendingUser("bob", "A@X.com", "123456", expiry))
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestUserRepository_MarkVerified(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	now := time.Now()

	u := newPendingUser("alice", "a@x.com", "123456", now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, u))

	assert.ErrorIs(t, repo.MarkVerified(ctx, u.ID, "654321", now), user.ErrStaleWrite)
	assert.ErrorIs(t, repo.MarkVerified(ctx, u.ID, "123456", now.Add(2*time.Hour)), user.ErrStaleWrite)

	require.NoError(t, repo.MarkVerified(ctx, u.ID, "123456", now))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Empty(t, got.VerifyCode)
	assert.Nil(t, got.VerifyCodeExpiry)

	assert.ErrorIs(t, repo.MarkVerified(ctx, u.ID, "123456", now), user.ErrStaleWrite)
}

func TestUserRepository_VerifiedUsernameIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	now := time.Now()

	first := newPendingUser("alice", "a@x.com", "111111", now.Add(time.Hour))
	second := newPendingUser("alice", "b@x.com", "222222", now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	require.NoError(t, repo.MarkVerified(ctx, first.ID, "111111", now))
	assert.ErrorIs(t, repo.MarkVerified(ctx, second.ID, "222222", now), user.ErrUsernameTaken)

	got, err := repo.GetVerifiedByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestUserRepository_ResetTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	now := time.Now()

	u := newPendingUser("alice", "a@x.com", "", now)
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.SetResetToken(ctx, u.ID, "tok", now.Add(time.Hour)))

	_, err := repo.GetByResetToken(ctx, "tok", now.Add(2*time.Hour))
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	got, err := repo.GetByResetToken(ctx, "tok", now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, repo.CompleteReset(ctx, u.ID, "tok", "new-hash", now))
	assert.ErrorIs(t, repo.CompleteReset(ctx, u.ID, "tok", "other", now), user.ErrStaleWrite)

	_, err = repo.GetByResetToken(ctx, "tok", now)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.Empty(t, got.ResetPasswordToken)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u := newPendingUser("alice", "a@x.com", "123456", time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.Username = "mallory"

	again, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)
}

func TestUserRepository_ClearExpiredResetTokens(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	now := time.Now()

	expired := newPendingUser("alice", "a@x.com", "111111", now.Add(time.Hour))
	live := newPendingUser("bob", "b@x.com", "222222", now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.SetResetToken(ctx, expired.ID, "old", now.Add(-time.Minute)))
	require.NoError(t, repo.SetResetToken(ctx, live.ID, "fresh", now.Add(time.Hour)))

	cleared, err := repo.ClearExpiredResetTokens(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	got, err := repo.GetByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ResetPasswordToken)
	assert.Nil(t, got.ResetPasswordExpiresAt)

	got, err = repo.GetByResetToken(ctx, "fresh", now)
	require.NoError(t, err)
	assert.Equal(t, live.ID, got.ID)
}

func TestUserRepository_UpdateRefusesVerifiedRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	now := time.Now()

	u := newPendingUser("alice", "a@x.com", "123456", now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, u))

	snapshot, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, repo.MarkVerified(ctx, u.ID, "123456", now))

	snapshot.PasswordHash = "attacker"
	assert.ErrorIs(t, repo.Update(ctx, snapshot), user.ErrStaleWrite)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Equal(t, "hash", got.PasswordHash)
}

func TestUserRepository_UpdatePendingRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u := newPendingUser("alice", "a@x.com", "123456", time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, u))

	u.Username = "alice2"
	u.IsVerified = true
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)
	assert.False(t, got.IsVerified)
}
