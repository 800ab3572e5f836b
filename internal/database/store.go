package database

import (
	"context"
	"fmt"

	"job-board/internal/config"
	"job-board/internal/domain/job"
	"job-board/internal/domain/user"
	"job-board/internal/infrastructure/database/memory"
	"job-board/internal/infrastructure/database/mongo"
	"job-board/internal/infrastructure/database/postgres"
	"job-board/internal/logger"

	"go.uber.org/zap"
)

type connection interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Store bundles the repositories of the configured backend.
type Store struct {
	Driver string
	Users  user.Repository
	Jobs   job.Repository

	conn connection
}

// Open connects to the backend selected by DB_DRIVER and prepares its schema.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		conn, err := mongo.NewConnection(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver: config.DriverMongo,
			Users:  conn.Users(),
			Jobs:   conn.Jobs(),
			conn:   conn,
		}, nil

	case config.DriverPostgres:
		db, err := postgres.NewDB(cfg)
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("error migrating database: %w", err)
		}
		return &Store{
			Driver: config.DriverPostgres,
			Users:  postgres.NewUserRepository(db),
			Jobs:   postgres.NewJobRepository(db),
			conn:   db,
		}, nil

	case config.DriverMemory:
		logger.Warn("Using in-memory store, data is lost on restart",
			zap.String("event", "db_memory_store"),
		)
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
}

func NewMemoryStore() *Store {
	mem := memory.NewStore()
	return &Store{
		Driver: config.DriverMemory,
		Users:  mem.Users(),
		Jobs:   mem.Jobs(),
		conn:   mem,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}
