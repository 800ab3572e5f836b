package job

import (
	"fmt"

	domainJob "job-board/internal/domain/job"
	appErrors "job-board/pkg/errors"
	"job-board/pkg/utils"

	"github.com/go-playground/validator/v10"
)

func init() {
	if err := utils.RegisterValidation("job_sort", func(fl validator.FieldLevel) bool {
		return domainJob.IsSortField(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

// ValidateSalaryRange rejects a range whose minimum exceeds its maximum.
func ValidateSalaryRange(r *SalaryRangeDTO) error {
	if r == nil || r.Min == nil || r.Max == nil {
		return nil
	}
	if *r.Min > *r.Max {
		return appErrors.NewAppError(
			appErrors.CodeValidation,
			fmt.Sprintf("salary_range.min (%.2f) must not exceed salary_range.max (%.2f)", *r.Min, *r.Max),
			nil,
		)
	}
	return nil
}

func validationError(err error) error {
	if utils.IsRequiredFailure(err) {
		return appErrors.NewAppError(appErrors.CodeValidation, "Please fill in all the required fields", err)
	}
	return appErrors.NewAppError(appErrors.CodeValidation, utils.ValidationMessage(err), err)
}
