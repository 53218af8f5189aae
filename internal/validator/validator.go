// Package validator wraps go-playground struct validation with the
// exam-domain rules and the request DTOs handlers bind against.
package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator validates request structs against tag rules plus the
// custom exam-domain rules registered in New.
type Validator struct {
	validate *validator.Validate
}

// ValidationError is one failed field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// New creates a validator with the custom rules registered.
func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerRules()

	return v
}

// Validate validates a struct. A nil return means valid.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ToValidationErrors converts a go-playground error into the API shape.
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			errors = append(errors, ValidationError{
				Field:   strings.ToLower(fe.Field()),
				Message: errorMessage(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return errors
	}
	errors = append(errors, ValidationError{Field: "request", Message: err.Error()})
	return errors
}

func (v *Validator) registerRules() {
	v.validate.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "easy", "medium", "hard":
			return true
		}
		return false
	})

	v.validate.RegisterValidation("report_reason", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "incorrect_answer", "unclear_question", "technical_issue", "other":
			return true
		}
		return false
	})

	v.validate.RegisterValidation("report_status", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "pending", "reviewed", "resolved", "dismissed":
			return true
		}
		return false
	})

	v.validate.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "light", "dark", "system":
			return true
		}
		return false
	})
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "difficulty":
		return "must be one of easy, medium, hard"
	case "report_reason":
		return "must be a known report reason"
	case "report_status":
		return "must be a known report status"
	case "theme":
		return "must be one of light, dark, system"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
