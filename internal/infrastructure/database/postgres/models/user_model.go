package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	UniqueEmailIndex            = "uniq_users_email"
	UniqueVerifiedUsernameIndex = "uniq_users_verified_username"
)

// UserModel represents the database model for User
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"type:varchar(100);not null;index:uniq_users_verified_username,unique,where:is_verified = true"`
	Email        string    `gorm:"type:varchar(255);not null;index:uniq_users_email,unique"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null"`

	IsVerified       bool       `gorm:"not null"`
	VerifyCode       *string    `gorm:"type:varchar(6)"`
	VerifyCodeExpiry *time.Time `gorm:"type:timestamptz"`

	ResetPasswordToken     *string    `gorm:"type:varchar(64);index"`
	ResetPasswordExpiresAt *time.Time `gorm:"type:timestamptz"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}
