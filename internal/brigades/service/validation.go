package service

import (
	"regexp"

	"brigadas_backend/internal/brigades/domain"
	"brigadas_backend/platform/apperr"
	"brigadas_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

var shiftTimeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func registerValidations(val *validator.Validator) {
	rules := map[string]playground.Func{
		"brigade_type": func(fl playground.FieldLevel) bool {
			_, err := domain.ParseBrigadeType(fl.Field().String())
			return err == nil
		},
		"brigade_status": func(fl playground.FieldLevel) bool {
			_, err := domain.ParseStatus(fl.Field().String())
			return err == nil
		},
		"member_role": func(fl playground.FieldLevel) bool {
			return domain.MemberRole(fl.Field().String()).Valid()
		},
		"weekday": func(fl playground.FieldLevel) bool {
			day := fl.Field().String()
			for _, d := range domain.Weekdays {
				if d == day {
					return true
				}
			}
			return false
		},
		"shift_time": func(fl playground.FieldLevel) bool {
			return shiftTimeRegex.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := val.RegisterValidation(tag, fn); err != nil {
			panic("brigades: register validation " + tag + ": " + err.Error())
		}
	}
}

// invalidInput turns a validator error into a validation error listing every violation.
func invalidInput(message string, err error) error {
	violations := validator.Violations(err)
	if violations == nil {
		return apperr.Wrap(apperr.KindValidation, message, err)
	}
	return apperr.Validation(message).WithDetails(violations)
}

// requireIDs reports every missing identifier at once.
func requireIDs(op string, ids map[string]string) error {
	var violations []validator.FieldViolation
	for _, field := range []string{"brigadeId", "reportId", "id"} {
		value, ok := ids[field]
		if ok && value == "" {
			violations = append(violations, validator.FieldViolation{
				Field:   field,
				Rule:    "required",
				Message: field + " is required",
			})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return apperr.Validation(violations[0].Message).WithOp(op).WithDetails(violations)
}
