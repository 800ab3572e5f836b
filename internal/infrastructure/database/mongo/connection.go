package mongo

import (
	"context"
	"fmt"
	"time"

	"job-board/internal/config"
	"job-board/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	usersCollection = "users"
	jobsCollection  = "jobs"
)

// Store owns the client and hands out repositories bound to one database.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

func NewConnection(ctx context.Context, cfg *config.MongoConfig) (*Store, error) {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	store := &Store{
		client:  client,
		db:      client.Database(cfg.Database),
		timeout: timeout,
	}

	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("Mongo connection established",
		zap.String("event", "db_connected"),
		zap.String("driver", "mongo"),
		zap.String("database", cfg.Database),
	)

	return store, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Users() *UserRepository {
	return NewUserRepository(s.db.Collection(usersCollection), s.timeout)
}

func (s *Store) Jobs() *JobRepository {
	return NewJobRepository(s.db.Collection(jobsCollection), s.timeout)
}
