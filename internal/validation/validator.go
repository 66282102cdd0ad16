// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ErrorCode is the API error code for failed validation.
const ErrorCode = "VALIDATION_ERROR"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError describes one field that failed validation.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   any
	message string
}

// Field returns the struct field name that failed validation.
func (e *ValidationError) Field() string { return e.field }

// Tag returns the validation tag that failed.
func (e *ValidationError) Tag() string { return e.tag }

// Param returns the tag parameter, e.g. "255" for "max=255".
func (e *ValidationError) Param() string { return e.param }

// Value returns the rejected value.
func (e *ValidationError) Value() any { return e.value }

func (e *ValidationError) Error() string { return e.message }

// RequestValidationError collects every field that failed validation.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the field errors in struct order.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	return ve.join(func(e ValidationError) string { return e.message })
}

func (ve *RequestValidationError) join(format func(ValidationError) string) string {
	parts := make([]string, len(ve.errors))
	for i, e := range ve.errors {
		parts[i] = format(e)
	}
	return strings.Join(parts, "; ")
}

// APIError is the error body shape returned by the HTTP API.
// It mirrors api.APIError so this package does not import the api package.
type APIError struct {
	Code    string
	Message string
	Details map[string]any
}

// ToAPIError converts the errors into a VALIDATION_ERROR body. A single
// failure is reported with its field, tag and value; several failures are
// listed under "fields".
func (ve *RequestValidationError) ToAPIError() *APIError {
	switch len(ve.errors) {
	case 0:
		return &APIError{Code: ErrorCode, Message: "Validation failed"}
	case 1:
		e := ve.errors[0]
		return &APIError{
			Code:    ErrorCode,
			Message: e.message,
			Details: map[string]any{"field": e.field, "tag": e.tag, "value": e.value},
		}
	}

	fields := make([]map[string]any, len(ve.errors))
	for i, e := range ve.errors {
		fields[i] = map[string]any{"field": e.field, "tag": e.tag, "message": e.message}
	}
	return &APIError{
		Code:    ErrorCode,
		Message: ve.join(func(e ValidationError) string { return e.field + ": " + e.message }),
		Details: map[string]any{"fields": fields},
	}
}

// GetValidator returns the process-wide validator with the custom tags
// nats_subject and clean_path registered. It is safe for concurrent use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Registration only fails for empty tags or nil functions.
		_ = validate.RegisterValidation("nats_subject", validateNATSSubject)
		_ = validate.RegisterValidation("clean_path", validateCleanPath)
	})
	return validate
}

// validateNATSSubject accepts literal subjects such as "geoscan.exif".
// Wildcards are rejected because records are published, not subscribed.
func validateNATSSubject(fl validator.FieldLevel) bool {
	subject := fl.Field().String()
	if subject == "" {
		return true
	}
	for _, token := range strings.Split(subject, ".") {
		if token == "" || token == "*" || token == ">" {
			return false
		}
		if strings.IndexFunc(token, func(r rune) bool {
			return unicode.IsSpace(r) || unicode.IsControl(r)
		}) >= 0 {
			return false
		}
	}
	return true
}

// validateCleanPath rejects paths containing NUL bytes, which no filesystem accepts.
func validateCleanPath(fl validator.FieldLevel) bool {
	return !strings.ContainsRune(fl.Field().String(), 0)
}

// ValidateStruct validates s with the shared validator. It returns nil when
// s is valid.
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    rw.ValidationError(apiErr.Message, apiErr.Details)
//	    return
//	}
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{errors: []ValidationError{
			{field: "unknown", tag: "unknown", message: err.Error()},
		}}
	}

	out := make([]ValidationError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = ValidationError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			value:   fe.Value(),
			message: message(fe),
		}
	}
	return &RequestValidationError{errors: out}
}

// messages maps tags to templates; the field name fills the first %s and
// the tag parameter the second, when present.
var messages = map[string]string{
	"required":     "%s is required",
	"nats_subject": "%s must be a NATS subject without wildcards or whitespace",
	"clean_path":   "%s must be a valid filesystem path",
	"oneof":        "%s must be one of: %s",
	"gte":          "%s must be greater than or equal to %s",
	"lte":          "%s must be less than or equal to %s",
	"gt":           "%s must be greater than %s",
	"lt":           "%s must be less than %s",
}

// message renders a human-readable message for fe.
func message(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if tmpl, ok := messages[tag]; ok {
		if strings.Count(tmpl, "%s") == 2 {
			return fmt.Sprintf(tmpl, field, param)
		}
		return fmt.Sprintf(tmpl, field)
	}

	unit := ""
	if fe.Kind().String() == "string" {
		unit = " characters"
	}
	switch tag {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
