package job

import (
	"time"

	"github.com/google/uuid"
)

type SalaryRange struct {
	Min      *float64
	Max      *float64
	Currency string
}

// Job is a posting owned by the recruiter in PostedBy.
type Job struct {
	ID uuid.UUID

	Title           string
	Description     string
	CompanyName     string
	Location        string
	EmploymentType  string
	JobType         string
	Remote          bool
	SalaryRange     SalaryRange
	ExperienceLevel string
	Skills          []string

	PostedBy            uuid.UUID
	PostedDate          time.Time
	ApplicationDeadline time.Time
	IsActive            bool

	RequiredEducation       string
	RequiredLanguages       []string
	NumberOfOpenings        int
	ApplicationLink         string
	ContactEmail            string
	ApplicationInstructions string
	Benefits                []string
	WorkHours               string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (j *Job) OwnedBy(userID uuid.UUID) bool {
	return j.PostedBy == userID
}

func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	c.Skills = append([]string(nil), j.Skills...)
	c.RequiredLanguages = append([]string(nil), j.RequiredLanguages...)
	c.Benefits = append([]string(nil), j.Benefits...)
	if j.SalaryRange.Min != nil {
		v := *j.SalaryRange.Min
		c.SalaryRange.Min = &v
	}
	if j.SalaryRange.Max != nil {
		v := *j.SalaryRange.Max
		c.SalaryRange.Max = &v
	}
	return &c
}
