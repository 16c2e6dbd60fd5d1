package auth

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/receipthub/backend-receipt/internal/common"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// NewValidator returns the shared request validator with the auth rules registered.
func NewValidator() *validator.Validate {
	v := common.NewValidator()
	RegisterRules(v)
	return v
}

// RegisterRules adds the username, fullname and strongpassword tags to v.
func RegisterRules(v *validator.Validate) {
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("fullname", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if strings.TrimSpace(value) == "" {
			return false
		}
		for _, r := range value {
			if !unicode.IsLetter(r) && r != ' ' {
				return false
			}
		}
		return true
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		var upper, lower, digit bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsDigit(r):
				digit = true
			}
		}
		return upper && lower && digit
	})
}

var ruleMessages = map[string]string{
	"full_name:required":      "full name is required",
	"full_name:max":           "full name cannot be longer than 50 characters",
	"full_name:fullname":      "full name must contain only letters and spaces",
	"username:required":       "username is required",
	"username:max":            "username cannot be longer than 20 characters",
	"username:username":       "username must contain only letters and digits",
	"password:required":       "password is required",
	"password:min":            "password must be at least 6 characters long",
	"password:strongpassword": "password must contain an uppercase letter, a lowercase letter and a digit",
}

func validationError(err error) *common.AppError {
	fields := common.ValidationErrors(err)
	message := "invalid request payload"
	if len(fields) > 0 {
		if m, ok := ruleMessages[fields[0].Field+":"+fields[0].Rule]; ok {
			message = m
		}
	}
	return common.NewAppError("VALIDATION_ERROR", message, httpStatusUnprocessable, err).WithDetails(fields)
}
