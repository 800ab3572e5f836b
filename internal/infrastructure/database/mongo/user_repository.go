package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-board/internal/domain/user"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewUserRepository(coll *mongo.Collection, timeout time.Duration) *UserRepository {
	return &UserRepository{coll: coll, timeout: timeout}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, toUserDocument(u)); err != nil {
		return mapUserWriteError(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: userID.String()}})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: strings.ToLower(email)}})
}

func (r *UserRepository) GetVerifiedByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, bson.D{
		{Key: "username", Value: username},
		{Key: "is_verified", Value: true},
	})
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	u.UpdatedAt = time.Now().UTC()
	filter, update := registrationUpdate(toUserDocument(u))

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return mapUserWriteError(err)
	}
	if result.MatchedCount == 0 {
		return user.ErrStaleWrite
	}
	return nil
}

// registrationUpdate only matches the record while it is unverified.
func registrationUpdate(doc *userDocument) (bson.D, bson.D) {
	filter := bson.D{
		{Key: "_id", Value: doc.ID},
		{Key: "is_verified", Value: false},
	}

	set := bson.D{
		{Key: "username", Value: doc.Username},
		{Key: "email", Value: doc.Email},
		{Key: "password_hash", Value: doc.PasswordHash},
		{Key: "role", Value: doc.Role},
		{Key: "updated_at", Value: doc.UpdatedAt},
	}
	unset := bson.D{}
	set, unset = setOrUnset(set, unset, "verify_code", doc.VerifyCode, doc.VerifyCode == "")
	set, unset = setOrUnset(set, unset, "verify_code_expiry", doc.VerifyCodeExpiry, doc.VerifyCodeExpiry == nil)
	set, unset = setOrUnset(set, unset, "reset_password_token", doc.ResetPasswordToken, doc.ResetPasswordToken == "")
	set, unset = setOrUnset(set, unset, "reset_password_expires_at", doc.ResetPasswordExpiresAt, doc.ResetPasswordExpiresAt == nil)

	update := bson.D{{Key: "$set", Value: set}}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}
	return filter, update
}

func (r *UserRepository) MarkVerified(ctx context.Context, userID uuid.UUID, code string, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.D{
		{Key: "_id", Value: userID.String()},
		{Key: "is_verified", Value: false},
		{Key: "verify_code", Value: code},
		{Key: "verify_code_expiry", Value: bson.D{{Key: "$gt", Value: now.UTC()}}},
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "is_verified", Value: true},
			{Key: "updated_at", Value: time.Now().UTC()},
		}},
		{Key: "$unset", Value: bson.D{
			{Key: "verify_code", Value: ""},
			{Key: "verify_code_expiry", Value: ""},
		}},
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return mapUserWriteError(err)
	}
	if result.MatchedCount == 0 {
		return user.ErrStaleWrite
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "reset_password_token", Value: token},
		{Key: "reset_password_expires_at", Value: expiresAt.UTC()},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}

	result, err := r.coll.UpdateByID(ctx, userID.String(), update)
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	if result.MatchedCount == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*user.User, error) {
	if token == "" {
		return nil, user.ErrUserNotFound
	}
	return r.findOne(ctx, bson.D{
		{Key: "reset_password_token", Value: token},
		{Key: "reset_password_expires_at", Value: bson.D{{Key: "$gt", Value: now.UTC()}}},
	})
}

func (r *UserRepository) CompleteReset(ctx context.Context, userID uuid.UUID, token, passwordHash string, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.D{
		{Key: "_id", Value: userID.String()},
		{Key: "reset_password_token", Value: token},
		{Key: "reset_password_expires_at", Value: bson.D{{Key: "$gt", Value: now.UTC()}}},
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "password_hash", Value: passwordHash},
			{Key: "updated_at", Value: time.Now().UTC()},
		}},
		{Key: "$unset", Value: bson.D{
			{Key: "reset_password_token", Value: ""},
			{Key: "reset_password_expires_at", Value: ""},
		}},
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to complete password reset: %w", err)
	}
	if result.MatchedCount == 0 {
		return user.ErrStaleWrite
	}
	return nil
}

func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.D{{Key: "reset_password_expires_at", Value: bson.D{{Key: "$lte", Value: now.UTC()}}}}
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now().UTC()}}},
		{Key: "$unset", Value: bson.D{
			{Key: "reset_password_token", Value: ""},
			{Key: "reset_password_expires_at", Value: ""},
		}},
	}

	result, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired reset tokens: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (*user.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return toUserEntity(&doc)
}

func setOrUnset(set, unset bson.D, key string, value any, empty bool) (bson.D, bson.D) {
	if empty {
		return set, append(unset, bson.E{Key: key, Value: ""})
	}
	return append(set, bson.E{Key: key, Value: value}), unset
}

// mapUserWriteError turns duplicate-key errors into the uniqueness errors the index enforces.
func mapUserWriteError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to write user: %w", err)
	}
	if strings.Contains(err.Error(), indexUniqueVerifiedUsername) {
		return user.ErrUsernameTaken
	}
	return user.ErrEmailTaken
}
