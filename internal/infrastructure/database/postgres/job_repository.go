package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-board/internal/domain/job"
	"job-board/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *DB
}

func NewJobRepository(db *DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, j *job.Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now

	if err := r.db.DB.WithContext(ctx).Create(toJobModel(j)).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, jobID uuid.UUID) (*job.Job, error) {
	var dbModel models.JobModel
	err := r.db.DB.WithContext(ctx).Where("id = ?", jobID).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, job.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return toJobEntity(&dbModel), nil
}

func (r *JobRepository) Update(ctx context.Context, j *job.Job) error {
	j.UpdatedAt = time.Now().UTC()

	result := r.db.DB.WithContext(ctx).
		Model(&models.JobModel{}).
		Where("id = ?", j.ID).
		Select("*").
		Omit("id", "posted_by", "created_at").
		Updates(toJobModel(j))

	if result.Error != nil {
		return fmt.Errorf("failed to update job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return job.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, jobID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).Where("id = ?", jobID).Delete(&models.JobModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return job.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) List(ctx context.Context, filter *job.Filter) ([]*job.Job, int64, error) {
	var dbModels []models.JobModel
	var total int64

	f := *filter
	f.Normalize()

	db := r.db.DB.WithContext(ctx).Model(&models.JobModel{})

	// Apply filters
	if f.Keyword != "" {
		db = db.Where("title ILIKE ?", likePattern(f.Keyword))
	}
	if f.Location != "" {
		db = db.Where("location ILIKE ?", likePattern(f.Location))
	}
	if f.JobType != "" {
		db = db.Where("job_type = ?", f.JobType)
	}
	if f.EmploymentType != "" {
		db = db.Where("employment_type = ?", f.EmploymentType)
	}
	if f.PostedBy != nil {
		db = db.Where("posted_by = ?", *f.PostedBy)
	}

	// Count total
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	// SortBy is whitelisted by Normalize
	order := fmt.Sprintf("%s %s, id ASC", f.SortBy, strings.ToUpper(f.SortOrder))

	if err := db.Order(order).Limit(f.Limit).Offset(f.Offset()).Find(&dbModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}

	jobs := make([]*job.Job, 0, len(dbModels))
	for i := range dbModels {
		jobs = append(jobs, toJobEntity(&dbModels[i]))
	}
	return jobs, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func toJobModel(j *job.Job) *models.JobModel {
	return &models.JobModel{
		ID:              j.ID,
		Title:           j.Title,
		Description:     j.Description,
		CompanyName:     j.CompanyName,
		Location:        j.Location,
		EmploymentType:  j.EmploymentType,
		JobType:         j.JobType,
		Remote:          j.Remote,
		SalaryRange:     models.SalaryRange(j.SalaryRange),
		ExperienceLevel: j.ExperienceLevel,
		Skills:          j.Skills,

		PostedBy:            j.PostedBy,
		PostedDate:          j.PostedDate,
		ApplicationDeadline: j.ApplicationDeadline,
		IsActive:            j.IsActive,

		RequiredEducation:       j.RequiredEducation,
		RequiredLanguages:       j.RequiredLanguages,
		NumberOfOpenings:        j.NumberOfOpenings,
		ApplicationLink:         j.ApplicationLink,
		ContactEmail:            j.ContactEmail,
		ApplicationInstructions: j.ApplicationInstructions,
		Benefits:                j.Benefits,
		WorkHours:               j.WorkHours,

		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

func toJobEntity(m *models.JobModel) *job.Job {
	return &job.Job{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		CompanyName:     m.CompanyName,
		Location:        m.Location,
		EmploymentType:  m.EmploymentType,
		JobType:         m.JobType,
		Remote:          m.Remote,
		SalaryRange:     job.SalaryRange(m.SalaryRange),
		ExperienceLevel: m.ExperienceLevel,
		Skills:          m.Skills,

		PostedBy:            m.PostedBy,
		PostedDate:          m.PostedDate,
		ApplicationDeadline: m.ApplicationDeadline,
		IsActive:            m.IsActive,

		RequiredEducation:       m.RequiredEducation,
		RequiredLanguages:       m.RequiredLanguages,
		NumberOfOpenings:        m.NumberOfOpenings,
		ApplicationLink:         m.ApplicationLink,
		ContactEmail:            m.ContactEmail,
		ApplicationInstructions: m.ApplicationInstructions,
		Benefits:                m.Benefits,
		WorkHours:               m.WorkHours,

		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
