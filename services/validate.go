package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate        = validator.New()
	slugPattern     = regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]{2,64}$`)
)

func init() {
	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

// check validates v by its `validate` tags and converts the first failure into a
// *ValidationError carrying the submitted value of that field.
func check(v interface{}, inputs map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	return invalid(field, inputs[field], reasonFor(fe))
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "url":
		return "must be a URL"
	case "slug":
		return "may only contain letters, digits, - and _"
	case "username":
		return "must be 2-64 letters, digits or _.@+-"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
