package job

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Repository defines the interface for job repository operations
type Repository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, jobID uuid.UUID) (*Job, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, jobID uuid.UUID) error
	List(ctx context.Context, filter *Filter) ([]*Job, int64, error)
}

const (
	SortPostedDate          = "posted_date"
	SortApplicationDeadline = "application_deadline"
	SortCreatedAt           = "created_at"
	SortTitle               = "title"
	SortNumberOfOpenings    = "number_of_openings"

	OrderAsc  = "asc"
	OrderDesc = "desc"

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var SortFields = []string{
	SortPostedDate,
	SortApplicationDeadline,
	SortCreatedAt,
	SortTitle,
	SortNumberOfOpenings,
}

// Filter represents filtering options for listing jobs
type Filter struct {
	Keyword        string
	Location       string
	JobType        string
	EmploymentType string
	PostedBy       *uuid.UUID

	// Pagination
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Normalize fills defaults and clamps paging so every store sees the same filter.
func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if !IsSortField(f.SortBy) {
		f.SortBy = SortPostedDate
	}
	f.SortOrder = strings.ToLower(f.SortOrder)
	if f.SortOrder != OrderAsc {
		f.SortOrder = OrderDesc
	}
}

func (f *Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}

func IsSortField(field string) bool {
	for _, s := range SortFields {
		if s == field {
			return true
		}
	}
	return false
}
