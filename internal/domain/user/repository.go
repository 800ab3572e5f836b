package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for user repository operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetVerifiedByUsername(ctx context.Context, username string) (*User, error)

	// Update replaces the registration fields of a record that is still
	// unverified. A verified record yields ErrStaleWrite and is left untouched.
	Update(ctx context.Context, user *User) error

	// MarkVerified flips IsVerified and clears the code, only while the record
	// is unverified, still holds code and the code has not expired at now.
	MarkVerified(ctx context.Context, userID uuid.UUID, code string, now time.Time) error

	SetResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetByResetToken(ctx context.Context, token string, now time.Time) (*User, error)

	// CompleteReset stores passwordHash and clears the reset token, only while
	// token is still current at now.
	CompleteReset(ctx context.Context, userID uuid.UUID, token, passwordHash string, now time.Time) error
	// ClearExpiredResetTokens drops reset tokens whose expiry is not after now
	// and reports how many records changed.
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}
