// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package filters

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	tagPair      = "pair"
	tagNotBefore = "notbefore"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by the names the console uses on the wire
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(dispatchStructLevel, DispatchFilter{})
	v.RegisterStructValidation(invoiceStructLevel, InvoiceFilter{})

	return v
}

// Struct validates any struct with the shared validator and returns a *ValidationError
// on failure. It is used for request bodies that follow the same error contract as filters.
func Struct(s interface{}) error {
	return fromValidator(validate.Struct(s))
}
