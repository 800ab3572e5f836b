package mongo

import (
	"fmt"
	"time"

	"job-board/internal/domain/job"
	"job-board/internal/domain/user"

	"github.com/google/uuid"
)

type userDocument struct {
	ID           string `bson:"_id"`
	Username     string `bson:"username"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`

	IsVerified       bool       `bson:"is_verified"`
	VerifyCode       string     `bson:"verify_code,omitempty"`
	VerifyCodeExpiry *time.Time `bson:"verify_code_expiry,omitempty"`

	ResetPasswordToken     string     `bson:"reset_password_token,omitempty"`
	ResetPasswordExpiresAt *time.Time `bson:"reset_password_expires_at,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type salaryRangeDocument struct {
	Min      *float64 `bson:"min,omitempty"`
	Max      *float64 `bson:"max,omitempty"`
	Currency string   `bson:"currency,omitempty"`
}

type jobDocument struct {
	ID              string              `bson:"_id"`
	Title           string              `bson:"title"`
	Description     string              `bson:"description"`
	CompanyName     string              `bson:"company_name"`
	Location        string              `bson:"location"`
	EmploymentType  string              `bson:"employment_type"`
	JobType         string              `bson:"job_type"`
	Remote          bool                `bson:"remote"`
	SalaryRange     salaryRangeDocument `bson:"salary_range"`
	ExperienceLevel string              `bson:"experience_level,omitempty"`
	Skills          []string            `bson:"skills"`

	PostedBy            string    `bson:"posted_by"`
	PostedDate          time.Time `bson:"posted_date"`
	ApplicationDeadline time.Time `bson:"application_deadline"`
	IsActive            bool      `bson:"is_active"`

	RequiredEducation       string   `bson:"required_education,omitempty"`
	RequiredLanguages       []string `bson:"required_languages,omitempty"`
	NumberOfOpenings        int      `bson:"number_of_openings"`
	ApplicationLink         string   `bson:"application_link,omitempty"`
	ContactEmail            string   `bson:"contact_email"`
	ApplicationInstructions string   `bson:"application_instructions,omitempty"`
	Benefits                []string `bson:"benefits,omitempty"`
	WorkHours               string   `bson:"work_hours,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toUserDocument(u *user.User) *userDocument {
	return &userDocument{
		ID:                     u.ID.String(),
		Username:               u.Username,
		Email:                  u.Email,
		PasswordHash:           u.PasswordHash,
		Role:                   string(u.Role),
		IsVerified:             u.IsVerified,
		VerifyCode:             u.VerifyCode,
		VerifyCodeExpiry:       utcPtr(u.VerifyCodeExpiry),
		ResetPasswordToken:     u.ResetPasswordToken,
		ResetPasswordExpiresAt: utcPtr(u.ResetPasswordExpiresAt),
		CreatedAt:              u.CreatedAt.UTC(),
		UpdatedAt:              u.UpdatedAt.UTC(),
	}
}

func toUserEntity(d *userDocument) (*user.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", d.ID, err)
	}
	return &user.User{
		ID:                     id,
		Username:               d.Username,
		Email:                  d.Email,
		PasswordHash:           d.PasswordHash,
		Role:                   user.Role(d.Role),
		IsVerified:             d.IsVerified,
		VerifyCode:             d.VerifyCode,
		VerifyCodeExpiry:       d.VerifyCodeExpiry,
		ResetPasswordToken:     d.ResetPasswordToken,
		ResetPasswordExpiresAt: d.ResetPasswordExpiresAt,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}, nil
}

func toJobDocument(j *job.Job) *jobDocument {
	return &jobDocument{
		ID:              j.ID.String(),
		Title:           j.Title,
		Description:     j.Description,
		CompanyName:     j.CompanyName,
		Location:        j.Location,
		EmploymentType:  j.EmploymentType,
		JobType:         j.JobType,
		Remote:          j.Remote,
		SalaryRange:     salaryRangeDocument(j.SalaryRange),
		ExperienceLevel: j.ExperienceLevel,
		Skills:          nonNil(j.Skills),

		PostedBy:            j.PostedBy.String(),
		PostedDate:          j.PostedDate.UTC(),
		ApplicationDeadline: j.ApplicationDeadline.UTC(),
		IsActive:            j.IsActive,

		RequiredEducation:       j.RequiredEducation,
		RequiredLanguages:       j.RequiredLanguages,
		NumberOfOpenings:        j.NumberOfOpenings,
		ApplicationLink:         j.ApplicationLink,
		ContactEmail:            j.ContactEmail,
		ApplicationInstructions: j.ApplicationInstructions,
		Benefits:                j.Benefits,
		WorkHours:               j.WorkHours,

		CreatedAt: j.CreatedAt.UTC(),
		UpdatedAt: j.UpdatedAt.UTC(),
	}
}

func toJobEntity(d *jobDocument) (*job.Job, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid job id %q: %w", d.ID, err)
	}
	postedBy, err := uuid.Parse(d.PostedBy)
	if err != nil {
		return nil, fmt.Errorf("invalid posted_by %q: %w", d.PostedBy, err)
	}
	return &job.Job{
		ID:              id,
		Title:           d.Title,
		Description:     d.Description,
		CompanyName:     d.CompanyName,
		Location:        d.Location,
		EmploymentType:  d.EmploymentType,
		JobType:         d.JobType,
		Remote:          d.Remote,
		SalaryRange:     job.SalaryRange(d.SalaryRange),
		ExperienceLevel: d.ExperienceLevel,
		Skills:          d.Skills,

		PostedBy:            postedBy,
		PostedDate:          d.PostedDate,
		ApplicationDeadline: d.ApplicationDeadline,
		IsActive:            d.IsActive,

		RequiredEducation:       d.RequiredEducation,
		RequiredLanguages:       d.RequiredLanguages,
		NumberOfOpenings:        d.NumberOfOpenings,
		ApplicationLink:         d.ApplicationLink,
		ContactEmail:            d.ContactEmail,
		ApplicationInstructions: d.ApplicationInstructions,
		Benefits:                d.Benefits,
		WorkHours:               d.WorkHours,

		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
