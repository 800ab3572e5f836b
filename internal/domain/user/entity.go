package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleApplicant Role = "applicant"
	RoleRecruiter Role = "recruiter"
)

func (r Role) Valid() bool {
	return r == RoleApplicant || r == RoleRecruiter
}

// User is the credential record. Verified users own their username and email.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Role         Role

	IsVerified       bool
	VerifyCode       string
	VerifyCodeExpiry *time.Time

	ResetPasswordToken     string
	ResetPasswordExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// VerifyCodeExpired reports whether the pending verification code is past its expiry.
func (u *User) VerifyCodeExpired(now time.Time) bool {
	return u.VerifyCodeExpiry == nil || !now.Before(*u.VerifyCodeExpiry)
}

func (u *User) ResetTokenValid(token string, now time.Time) bool {
	return token != "" &&
		u.ResetPasswordToken == token &&
		u.ResetPasswordExpiresAt != nil &&
		now.Before(*u.ResetPasswordExpiresAt)
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.VerifyCodeExpiry != nil {
		t := *u.VerifyCodeExpiry
		c.VerifyCodeExpiry = &t
	}
	if u.ResetPasswordExpiresAt != nil {
		t := *u.ResetPasswordExpiresAt
		c.ResetPasswordExpiresAt = &t
	}
	return &c
}
