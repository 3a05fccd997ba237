package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/rail-roster/pkg/core/timeutil"
)

var validate *validator.Validate

var weekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

func init() {
	validate = validator.New()
	validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, ok := timeutil.ParseTimeStrict(fl.Field().String())
		return ok
	})
	validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return weekdays[fl.Field().String()]
	})
}

// ValidateEmployee checks an employee record loaded from an external source
func ValidateEmployee(e Employee) error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("employee validation failed: %w", err)
	}
	return nil
}

// ValidateShiftPattern checks a shift pattern loaded from an external source
func ValidateShiftPattern(p ShiftPattern) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("shift pattern %q validation failed: %w", p.ID, err)
	}
	return nil
}

// ValidateAssignment checks an assignment loaded from an external source.
// Custom times must be given as a pair.
func ValidateAssignment(a Assignment) error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("assignment %q validation failed: %w", a.ID, err)
	}
	if (a.CustomStartTime == "") != (a.CustomEndTime == "") {
		return fmt.Errorf("assignment %q validation failed: customStartTime and customEndTime must be set together", a.ID)
	}
	return nil
}
