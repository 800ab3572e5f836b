package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	RoleApplicant = "applicant"
	RoleRecruiter = "recruiter"
)

var (
	validate   *validator.Validate
	emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	validRoles = []string{RoleApplicant, RoleRecruiter}
)

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("user_role", validateUserRole); err != nil {
		panic(err)
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// RegisterValidation adds a custom tag. Call it from init.
func RegisterValidation(tag string, fn validator.Func) error {
	return validate.RegisterValidation(tag, fn)
}

// ValidationMessage turns validator errors into a short client-facing sentence.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid input"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := toSnakeCase(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", field))
		case "email":
			parts = append(parts, fmt.Sprintf("%s must be a valid email", field))
		case "user_role":
			parts = append(parts, fmt.Sprintf("%s must be one of %s", field, strings.Join(validRoles, ", ")))
		case "url":
			parts = append(parts, fmt.Sprintf("%s must be a valid URL", field))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of %s", field, fe.Param()))
		case "min", "gte":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max", "lte":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(parts, "; ")
}

// IsRequiredFailure reports whether every validation failure is a missing field.
func IsRequiredFailure(err error) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return false
	}
	for _, fe := range verrs {
		if fe.Tag() != "required" {
			return false
		}
	}
	return true
}

func IsValidRole(role string) bool {
	for _, validRole := range validRoles {
		if role == validRole {
			return true
		}
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	return IsValidRole(fl.Field().String())
}

func IsValidEmail(email string) bool {
	email = strings.TrimSpace(strings.ToLower(email))
	return emailRegex.MatchString(email)
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
