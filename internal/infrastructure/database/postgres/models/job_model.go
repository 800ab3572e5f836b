package models

import (
	"time"

	"github.com/google/uuid"
)

type SalaryRange struct {
	Min      *float64 `gorm:"type:numeric(12,2)"`
	Max      *float64 `gorm:"type:numeric(12,2)"`
	Currency string   `gorm:"type:varchar(10)"`
}

// JobModel represents the database model for Job
type JobModel struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Title           string      `gorm:"type:varchar(255);not null"`
	Description     string      `gorm:"type:text;not null"`
	CompanyName     string      `gorm:"type:varchar(255);not null"`
	Location        string      `gorm:"type:varchar(255);not null"`
	EmploymentType  string      `gorm:"type:varchar(50);not null;index:idx_jobs_type"`
	JobType         string      `gorm:"type:varchar(50);not null;index:idx_jobs_type"`
	Remote          bool        `gorm:"not null"`
	SalaryRange     SalaryRange `gorm:"embedded;embeddedPrefix:salary_"`
	ExperienceLevel string      `gorm:"type:varchar(50)"`
	Skills          []string    `gorm:"type:jsonb;serializer:json;not null"`

	PostedBy            uuid.UUID `gorm:"type:uuid;not null;index:idx_jobs_posted_by"`
	PostedDate          time.Time `gorm:"type:timestamptz;not null;index"`
	ApplicationDeadline time.Time `gorm:"type:timestamptz;not null"`
	IsActive            bool      `gorm:"not null"`

	RequiredEducation       string   `gorm:"type:varchar(255)"`
	RequiredLanguages       []string `gorm:"type:jsonb;serializer:json"`
	NumberOfOpenings        int      `gorm:"not null"`
	ApplicationLink         string   `gorm:"type:varchar(500)"`
	ContactEmail            string   `gorm:"type:varchar(255);not null"`
	ApplicationInstructions string   `gorm:"type:text"`
	Benefits                []string `gorm:"type:jsonb;serializer:json"`
	WorkHours               string   `gorm:"type:varchar(100)"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (JobModel) TableName() string {
	return "jobs"
}
