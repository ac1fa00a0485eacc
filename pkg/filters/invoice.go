// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package filters

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const InvoiceStatusAll = "todo"

type InvoiceFilter struct {
	ClientID string `json:"clientId,omitempty"`
	Status   string `json:"status,omitempty" validate:"omitempty,oneof=todo pendiente pagada vencida anulada"`
	FromDate string `json:"fromDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ToDate   string `json:"toDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PerPage  int    `json:"perPage,omitempty" validate:"omitempty,oneof=10 25 50"`
	Page     int    `json:"page,omitempty" validate:"gte=0"`
}

func invoiceStructLevel(sl validator.StructLevel) {
	f := sl.Current().Interface().(InvoiceFilter)

	if f.FromDate == "" || f.ToDate == "" {
		return
	}

	from, errFrom := time.Parse(dateLayout, f.FromDate)
	to, errTo := time.Parse(dateLayout, f.ToDate)
	if errFrom != nil || errTo != nil {
		// malformed dates are already reported by the field rules
		return
	}

	if to.Before(from) {
		sl.ReportError(f.ToDate, "toDate", "ToDate", tagNotBefore, "fromDate")
	}
}

// ValidateInvoice returns f with status and paging defaulted.
func ValidateInvoice(f InvoiceFilter) (InvoiceFilter, error) {
	f.ClientID = strings.TrimSpace(f.ClientID)
	f.Status = strings.TrimSpace(f.Status)
	f.FromDate = strings.TrimSpace(f.FromDate)
	f.ToDate = strings.TrimSpace(f.ToDate)

	if err := fromValidator(validate.Struct(f)); err != nil {
		return InvoiceFilter{}, err
	}

	if f.Status == "" {
		f.Status = InvoiceStatusAll
	}
	if f.PerPage == 0 {
		f.PerPage = DefaultPerPage
	}
	if f.Page == 0 {
		f.Page = 1
	}

	return f, nil
}

// Range resolves the whole-day bounds of f in loc: From is the start of fromDate,
// To is the start of the day after toDate so it can be used as an exclusive bound.
func (f InvoiceFilter) Range(loc *time.Location) (DateTimeRange, error) {
	if loc == nil {
		loc = time.UTC
	}

	var r DateTimeRange

	if f.FromDate != "" {
		from, err := time.ParseInLocation(dateLayout, f.FromDate, loc)
		if err != nil {
			return DateTimeRange{}, fmt.Errorf("invalid fromDate %q: %w", f.FromDate, err)
		}
		r.From = &from
	}

	if f.ToDate != "" {
		to, err := time.ParseInLocation(dateLayout, f.ToDate, loc)
		if err != nil {
			return DateTimeRange{}, fmt.Errorf("invalid toDate %q: %w", f.ToDate, err)
		}
		to = to.AddDate(0, 0, 1)
		r.To = &to
	}

	return r, nil
}
