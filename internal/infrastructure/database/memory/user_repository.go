package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"job-board/internal/domain/user"

	"github.com/google/uuid"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*user.User
}

func NewUserRepository() user.Repository {
	return &userRepository{users: make(map[uuid.UUID]*user.User)}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(u); err != nil {
		return err
	}

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	r.users[u.ID] = u.Clone()
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u.Clone(), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *userRepository) GetVerifiedByUsername(ctx context.Context, username string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.IsVerified && u.Username == username {
			return u.Clone(), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[u.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	if existing.IsVerified {
		return user.ErrStaleWrite
	}
	if err := r.checkUnique(u); err != nil {
		return err
	}

	updated := u.Clone()
	updated.IsVerified = false
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.users[u.ID] = updated
	u.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *userRepository) MarkVerified(ctx context.Context, userID uuid.UUID, code string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	if u.IsVerified || u.VerifyCode == "" || u.VerifyCode != code || u.VerifyCodeExpired(now) {
		return user.ErrStaleWrite
	}
	for id, other := range r.users {
		if id != userID && other.IsVerified && other.Username == u.Username {
			return user.ErrUsernameTaken
		}
	}

	u.IsVerified = true
	u.VerifyCode = ""
	u.VerifyCodeExpiry = nil
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *userRepository) SetResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.ResetPasswordToken = token
	u.ResetPasswordExpiresAt = &expiresAt
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *userRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ResetTokenValid(token, now) {
			return u.Clone(), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *userRepository) CompleteReset(ctx context.Context, userID uuid.UUID, token, passwordHash string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok || !u.ResetTokenValid(token, now) {
		return user.ErrStaleWrite
	}
	u.PasswordHash = passwordHash
	u.ResetPasswordToken = ""
	u.ResetPasswordExpiresAt = nil
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *userRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var cleared int64
	for _, u := range r.users {
		if u.ResetPasswordExpiresAt != nil && !u.ResetPasswordExpiresAt.After(now) {
			u.ResetPasswordToken = ""
			u.ResetPasswordExpiresAt = nil
			u.UpdatedAt = time.Now().UTC()
			cleared++
		}
	}
	return cleared, nil
}

// checkUnique mirrors the store indexes: unique email, unique username among verified users.
func (r *userRepository) checkUnique(u *user.User) error {
	for id, other := range r.users {
		if id == u.ID {
			continue
		}
		if strings.EqualFold(other.Email, u.Email) {
			return user.ErrEmailTaken
		}
		if u.IsVerified && other.IsVerified && other.Username == u.Username {
			return user.ErrUsernameTaken
		}
	}
	return nil
}
