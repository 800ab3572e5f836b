package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-board/internal/domain/user"
	"job-board/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := r.db.DB.WithContext(ctx).Create(toUserModel(u)).Error; err != nil {
		return mapUserWriteError(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(email))
}

func (r *UserRepository) GetVerifiedByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.first(ctx, "username = ? AND is_verified = ?", username, true)
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now().UTC()
	m := toUserModel(u)

	result := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ? AND is_verified = ?", u.ID, false).
		Updates(map[string]interface{}{
			"username":                  m.Username,
			"email":                     m.Email,
			"password_hash":             m.PasswordHash,
			"role":                      m.Role,
			"verify_code":               m.VerifyCode,
			"verify_code_expiry":        m.VerifyCodeExpiry,
			"reset_password_token":      m.ResetPasswordToken,
			"reset_password_expires_at": m.ResetPasswordExpiresAt,
			"updated_at":                m.UpdatedAt,
		})

	if result.Error != nil {
		return mapUserWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrStaleWrite
	}
	return nil
}

func (r *UserRepository) MarkVerified(ctx context.Context, userID uuid.UUID, code string, now time.Time) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ? AND is_verified = ? AND verify_code = ? AND verify_code_expiry > ?", userID, false, code, now.UTC()).
		Updates(map[string]interface{}{
			"is_verified":        true,
			"verify_code":        nil,
			"verify_code_expiry": nil,
			"updated_at":         time.Now().UTC(),
		})

	if result.Error != nil {
		return mapUserWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrStaleWrite
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_password_token":      token,
			"reset_password_expires_at": expiresAt.UTC(),
			"updated_at":                time.Now().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to store reset token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*user.User, error) {
	if token == "" {
		return nil, user.ErrUserNotFound
	}
	return r.first(ctx, "reset_password_token = ? AND reset_password_expires_at > ?", token, now.UTC())
}

func (r *UserRepository) CompleteReset(ctx context.Context, userID uuid.UUID, token, passwordHash string, now time.Time) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ? AND reset_password_token = ? AND reset_password_expires_at > ?", userID, token, now.UTC()).
		Updates(map[string]interface{}{
			"password_hash":             passwordHash,
			"reset_password_token":      nil,
			"reset_password_expires_at": nil,
			"updated_at":                time.Now().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to complete password reset: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrStaleWrite
	}
	return nil
}

func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("reset_password_expires_at <= ?", now.UTC()).
		Updates(map[string]interface{}{
			"reset_password_token":      nil,
			"reset_password_expires_at": nil,
			"updated_at":                time.Now().UTC(),
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear expired reset tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).Where(query, args...).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toUserEntity(&dbModel), nil
}

func mapUserWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return fmt.Errorf("failed to write user: %w", err)
	}
	if pgErr.ConstraintName == models.UniqueVerifiedUsernameIndex {
		return user.ErrUsernameTaken
	}
	return user.ErrEmailTaken
}

func toUserModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:                     u.ID,
		Username:               u.Username,
		Email:                  u.Email,
		PasswordHash:           u.PasswordHash,
		Role:                   string(u.Role),
		IsVerified:             u.IsVerified,
		VerifyCode:             optional(u.VerifyCode),
		VerifyCodeExpiry:       u.VerifyCodeExpiry,
		ResetPasswordToken:     optional(u.ResetPasswordToken),
		ResetPasswordExpiresAt: u.ResetPasswordExpiresAt,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel) *user.User {
	return &user.User{
		ID:                     m.ID,
		Username:               m.Username,
		Email:                  m.Email,
		PasswordHash:           m.PasswordHash,
		Role:                   user.Role(m.Role),
		IsVerified:             m.IsVerified,
		VerifyCode:             deref(m.VerifyCode),
		VerifyCodeExpiry:       m.VerifyCodeExpiry,
		ResetPasswordToken:     deref(m.ResetPasswordToken),
		ResetPasswordExpiresAt: m.ResetPasswordExpiresAt,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
