// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package filters

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a validation failure scoped to a single filter field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries at most one FieldError per invalid field.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "invalid filter: " + strings.Join(parts, "; ")
}

// Field returns the error reported for the named field, if any.
func (e *ValidationError) Field(name string) (FieldError, bool) {
	for _, fe := range e.Errors {
		if fe.Field == name {
			return fe, true
		}
	}
	return FieldError{}, false
}

func (e *ValidationError) add(field, message string) {
	if _, ok := e.Field(field); ok {
		return
	}
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

var layoutNames = map[string]string{
	dateLayout: "YYYY-MM-DD",
	timeLayout: "HH:mm",
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		layout := fe.Param()
		if name, ok := layoutNames[layout]; ok {
			layout = name
		}
		return fmt.Sprintf("%s must use the %s format", fe.Field(), layout)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case tagPair:
		return fmt.Sprintf("date and time must be provided together (%s)", fe.Param())
	case tagNotBefore:
		return fmt.Sprintf("%s must not be before %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// fromValidator converts validator output into a ValidationError; other errors pass through.
func fromValidator(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := new(ValidationError)
	for _, fe := range verrs {
		out.add(fe.Field(), message(fe))
	}
	return out.orNil()
}
