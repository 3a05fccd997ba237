package fatigue

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/rail-roster/pkg/core/timeutil"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, ok := timeutil.ParseTimeStrict(fl.Field().String())
		return ok
	})
}

// ValidateParameters range-checks a parameter set.
// The engine itself never rejects input; callers building Parameters from
// external data are expected to call this first.
func ValidateParameters(params Parameters) error {
	if err := validate.Struct(params); err != nil {
		return fmt.Errorf("parameters validation failed: %w", err)
	}
	return nil
}

// ValidateShift range-checks a single shift definition
func ValidateShift(shift ShiftDefinition) error {
	if err := validate.Struct(shift); err != nil {
		return fmt.Errorf("shift validation failed for day %d: %w", shift.Day, err)
	}
	return nil
}

// ValidateSequence checks every shift and that days are non-decreasing
func ValidateSequence(shifts []ShiftDefinition) error {
	for i, shift := range shifts {
		if err := ValidateShift(shift); err != nil {
			return err
		}
		if i > 0 && shift.Day < shifts[i-1].Day {
			return fmt.Errorf("shift %d (day %d) is before previous shift (day %d): sequence must be sorted by day", i, shift.Day, shifts[i-1].Day)
		}
		if timeutil.ShiftDuration(shift.StartTime, shift.EndTime) <= 0 {
			return fmt.Errorf("shift %d (day %d) has no duration", i, shift.Day)
		}
	}
	return nil
}
