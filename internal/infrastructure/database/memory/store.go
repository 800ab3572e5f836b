package memory

import (
	"context"

	"job-board/internal/domain/job"
	"job-board/internal/domain/user"
)

// Store keeps everything in process memory. Data is lost on restart.
type Store struct {
	users user.Repository
	jobs  job.Repository
}

func NewStore() *Store {
	return &Store{
		users: NewUserRepository(),
		jobs:  NewJobRepository(),
	}
}

func (s *Store) Users() user.Repository { return s.users }

func (s *Store) Jobs() job.Repository { return s.jobs }

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close(context.Context) error { return nil }
