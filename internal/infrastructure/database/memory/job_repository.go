package memory

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"job-board/internal/domain/job"

	"github.com/google/uuid"
)

type jobRepository struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*job.Job
}

func NewJobRepository() job.Repository {
	return &jobRepository{jobs: make(map[uuid.UUID]*job.Job)}
}

func (r *jobRepository) Create(ctx context.Context, j *job.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now

	r.jobs[j.ID] = j.Clone()
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, jobID uuid.UUID) (*job.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[jobID]
	if !ok {
		return nil, job.ErrJobNotFound
	}
	return j.Clone(), nil
}

func (r *jobRepository) Update(ctx context.Context, j *job.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.jobs[j.ID]
	if !ok {
		return job.ErrJobNotFound
	}

	updated := j.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.jobs[j.ID] = updated
	j.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *jobRepository) Delete(ctx context.Context, jobID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[jobID]; !ok {
		return job.ErrJobNotFound
	}
	delete(r.jobs, jobID)
	return nil
}

func (r *jobRepository) List(ctx context.Context, filter *job.Filter) ([]*job.Job, int64, error) {
	f := *filter
	f.Normalize()

	r.mu.RLock()
	matched := make([]*job.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if matches(j, &f) {
			matched = append(matched, j.Clone())
		}
	}
	r.mu.RUnlock()

	// id ascending breaks ties, as the database stores do.
	sort.Slice(matched, func(a, b int) bool {
		x, y := matched[a], matched[b]
		if f.SortOrder != job.OrderAsc {
			x, y = y, x
		}
		if lessBy(x, y, f.SortBy) {
			return true
		}
		if lessBy(y, x, f.SortBy) {
			return false
		}
		return bytes.Compare(matched[a].ID[:], matched[b].ID[:]) < 0
	})

	total := int64(len(matched))
	start := f.Offset()
	if start >= len(matched) {
		return []*job.Job{}, total, nil
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func matches(j *job.Job, f *job.Filter) bool {
	if f.Keyword != "" && !containsFold(j.Title, f.Keyword) {
		return false
	}
	if f.Location != "" && !containsFold(j.Location, f.Location) {
		return false
	}
	if f.JobType != "" && j.JobType != f.JobType {
		return false
	}
	if f.EmploymentType != "" && j.EmploymentType != f.EmploymentType {
		return false
	}
	if f.PostedBy != nil && j.PostedBy != *f.PostedBy {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func lessBy(a, b *job.Job, field string) bool {
	switch field {
	case job.SortApplicationDeadline:
		return a.ApplicationDeadline.Before(b.ApplicationDeadline)
	case job.SortCreatedAt:
		return a.CreatedAt.Before(b.CreatedAt)
	case job.SortTitle:
		return a.Title < b.Title
	case job.SortNumberOfOpenings:
		return a.NumberOfOpenings < b.NumberOfOpenings
	default:
		return a.PostedDate.Before(b.PostedDate)
	}
}
