package job

import (
	"time"

	domainJob "job-board/internal/domain/job"

	"github.com/google/uuid"
)

type SalaryRangeDTO struct {
	Min      *float64 `json:"min" validate:"omitempty,gte=0"`
	Max      *float64 `json:"max" validate:"omitempty,gte=0"`
	Currency string   `json:"currency" validate:"omitempty,max=10"`
}

// Request DTOs
type CreateJobRequest struct {
	Title           string          `json:"title" validate:"required,max=255"`
	Description     string          `json:"description" validate:"required"`
	CompanyName     string          `json:"company_name" validate:"required,max=255"`
	Location        string          `json:"location" validate:"required,max=255"`
	EmploymentType  string          `json:"employment_type" validate:"required,max=50"`
	JobType         string          `json:"job_type" validate:"required,max=50"`
	Remote          *bool           `json:"remote"`
	SalaryRange     *SalaryRangeDTO `json:"salary_range" validate:"omitempty"`
	ExperienceLevel string          `json:"experience_level" validate:"omitempty,max=50"`
	Skills          []string        `json:"skills" validate:"required,min=1,dive,required"`

	PostedDate          *time.Time `json:"posted_date"`
	ApplicationDeadline *time.Time `json:"application_deadline" validate:"required"`
	IsActive            *bool      `json:"is_active"`

	RequiredEducation       string   `json:"required_education" validate:"omitempty,max=255"`
	RequiredLanguages       []string `json:"required_languages"`
	NumberOfOpenings        *int     `json:"number_of_openings" validate:"omitempty,min=1"`
	ApplicationLink         string   `json:"application_link" validate:"omitempty,url"`
	ContactEmail            string   `json:"contact_email" validate:"required,email"`
	ApplicationInstructions string   `json:"application_instructions"`
	Benefits                []string `json:"benefits"`
	WorkHours               string   `json:"work_hours" validate:"omitempty,max=100"`
}

// UpdateJobRequest is partial: nil fields are left unchanged.
type UpdateJobRequest struct {
	Title           *string         `json:"title" validate:"omitempty,min=1,max=255"`
	Description     *string         `json:"description" validate:"omitempty,min=1"`
	CompanyName     *string         `json:"company_name" validate:"omitempty,min=1,max=255"`
	Location        *string         `json:"location" validate:"omitempty,min=1,max=255"`
	EmploymentType  *string         `json:"employment_type" validate:"omitempty,min=1,max=50"`
	JobType         *string         `json:"job_type" validate:"omitempty,min=1,max=50"`
	Remote          *bool           `json:"remote"`
	SalaryRange     *SalaryRangeDTO `json:"salary_range" validate:"omitempty"`
	ExperienceLevel *string         `json:"experience_level" validate:"omitempty,max=50"`
	Skills          []string        `json:"skills" validate:"omitempty,min=1,dive,required"`

	PostedDate          *time.Time `json:"posted_date"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
	IsActive            *bool      `json:"is_active"`

	RequiredEducation       *string  `json:"required_education" validate:"omitempty,max=255"`
	RequiredLanguages       []string `json:"required_languages"`
	NumberOfOpenings        *int     `json:"number_of_openings" validate:"omitempty,min=1"`
	ApplicationLink         *string  `json:"application_link" validate:"omitempty,url"`
	ContactEmail            *string  `json:"contact_email" validate:"omitempty,email"`
	ApplicationInstructions *string  `json:"application_instructions"`
	Benefits                []string `json:"benefits"`
	WorkHours               *string  `json:"work_hours" validate:"omitempty,max=100"`
}

type ListJobsRequest struct {
	Keyword        string `form:"keyword"`
	Location       string `form:"location"`
	JobType        string `form:"job_type"`
	EmploymentType string `form:"employment_type"`
	Page           int    `form:"page" validate:"omitempty,min=1"`
	Limit          int    `form:"limit" validate:"omitempty,min=1,max=100"`
	SortBy         string `form:"sort_by" validate:"omitempty,job_sort"`
	Order          string `form:"order" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// Response DTOs
type JobResponse struct {
	ID              uuid.UUID      `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	CompanyName     string         `json:"company_name"`
	Location        string         `json:"location"`
	EmploymentType  string         `json:"employment_type"`
	JobType         string         `json:"job_type"`
	Remote          bool           `json:"remote"`
	SalaryRange     SalaryRangeDTO `json:"salary_range"`
	ExperienceLevel string         `json:"experience_level,omitempty"`
	Skills          []string       `json:"skills"`

	PostedBy            uuid.UUID `json:"posted_by"`
	PostedDate          time.Time `json:"posted_date"`
	ApplicationDeadline time.Time `json:"application_deadline"`
	IsActive            bool      `json:"is_active"`

	RequiredEducation       string   `json:"required_education,omitempty"`
	RequiredLanguages       []string `json:"required_languages,omitempty"`
	NumberOfOpenings        int      `json:"number_of_openings"`
	ApplicationLink         string   `json:"application_link,omitempty"`
	ContactEmail            string   `json:"contact_email"`
	ApplicationInstructions string   `json:"application_instructions,omitempty"`
	Benefits                []string `json:"benefits,omitempty"`
	WorkHours               string   `json:"work_hours,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type JobListResponse struct {
	Items      []*JobResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

func ToJobResponse(j *domainJob.Job) *JobResponse {
	if j == nil {
		return nil
	}
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	return &JobResponse{
		ID:              j.ID,
		Title:           j.Title,
		Description:     j.Description,
		CompanyName:     j.CompanyName,
		Location:        j.Location,
		EmploymentType:  j.EmploymentType,
		JobType:         j.JobType,
		Remote:          j.Remote,
		SalaryRange:     SalaryRangeDTO(j.SalaryRange),
		ExperienceLevel: j.ExperienceLevel,
		Skills:          skills,

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
