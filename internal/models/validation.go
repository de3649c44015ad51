package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationService provides model validation functionality
type ValidationService struct {
	validator *validator.Validate
}

// NewValidationService creates a new validation service
func NewValidationService() *ValidationService {
	v := validator.New()

	// Register custom tag name function to use json tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("json_array", jsonShape('['))
	_ = v.RegisterValidation("json_object", jsonShape('{'))

	return &ValidationService{validator: v}
}

// jsonShape accepts an empty value or a JSON document whose top level starts
// with open. The store enforces the same rule with jsonb_typeof checks.
func jsonShape(open byte) validator.Func {
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.Slice || field.Type().Elem().Kind() != reflect.Uint8 {
			return false
		}
		raw := field.Bytes()
		if len(raw) == 0 {
			return true
		}
		if !json.Valid(raw) {
			return false
		}
		trimmed := strings.TrimSpace(string(raw))
		return trimmed == "null" || trimmed[0] == open
	}
}

// ValidateStruct validates a struct and returns detailed error information
func (vs *ValidationService) ValidateStruct(s interface{}) error {
	if err := vs.validator.Struct(s); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		var messages []string
		for _, err := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s",
				err.Field(),
				vs.getErrorMessage(err),
			))
		}

		return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
	}

	return nil
}

// getErrorMessage returns a human-readable error message for validation errors
func (vs *ValidationService) getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "url":
		return "must be a valid URL"
	case "json_array":
		return "must be a JSON array"
	case "json_object":
		return "must be a JSON object"
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}
