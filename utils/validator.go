package utils

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

// RegisterCustomValidations registers custom validation rules
func RegisterCustomValidations(v *validator.Validate) {
	v.RegisterValidation("username", validateUsername)
	v.RegisterValidation("otpcode", validateOTPCode)
}

// validateUsername allows alphanumerics, underscores and periods only.
func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// validateOTPCode checks for exactly six decimal digits.
func validateOTPCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// TranslateValidationErrors collects every failed field into one map so the
// client sees all problems at once instead of the first.
func TranslateValidationErrors(err error) map[string]string {
	fields := map[string]string{}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		fields["non_field_errors"] = err.Error()
		return fields
	}

	for _, fe := range ve {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			fields[field] = field + " is required"
		case "email":
			fields[field] = "invalid email format"
		case "min":
			fields[field] = field + " must be at least " + fe.Param() + " characters"
		case "max":
			fields[field] = field + " must be at most " + fe.Param() + " characters"
		case "len":
			fields[field] = field + " must be exactly " + fe.Param() + " characters"
		case "username":
			fields[field] = "username can only contain alphanumeric characters, underscores, and periods"
		case "otpcode":
			fields[field] = "OTP code must be exactly 6 digits"
		case "eqfield":
			fields[field] = "passwords do not match"
		default:
			fields[field] = field + " is invalid"
		}
	}
	return fields
}
