package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	indexUniqueEmail            = "uniq_email"
	indexUniqueVerifiedUsername = "uniq_verified_username"
)

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(indexUniqueEmail).SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().
				SetName(indexUniqueVerifiedUsername).
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "is_verified", Value: true}}),
		},
		{
			Keys: bson.D{{Key: "reset_password_token", Value: 1}},
			Options: options.Index().
				SetName("idx_reset_password_token").
				SetSparse(true),
		},
	}
}

func jobIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "posted_by", Value: 1}, {Key: "posted_date", Value: -1}}},
		{Keys: bson.D{{Key: "posted_date", Value: -1}}},
		{Keys: bson.D{{Key: "job_type", Value: 1}, {Key: "employment_type", Value: 1}}},
	}
}

// EnsureIndexes creates the indexes the repositories rely on for uniqueness.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.Collection(usersCollection).Indexes().CreateMany(ctx, userIndexes()); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	if _, err := s.db.Collection(jobsCollection).Indexes().CreateMany(ctx, jobIndexes()); err != nil {
		return fmt.Errorf("failed to create job indexes: %w", err)
	}
	return nil
}
