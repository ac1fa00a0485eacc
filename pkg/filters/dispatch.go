// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package filters

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DispatchStatusAll        = "todo"
	DispatchStatusOpen       = "abierto"
	DispatchStatusInProgress = "en_proceso"
	DispatchStatusClosed     = "cerrado"
)

// DispatchFilter restricts an incident-ticket listing to one client site.
type DispatchFilter struct {
	ClientID        string `json:"clientId" validate:"required"`
	SiteID          string `json:"siteId" validate:"required"`
	Status          string `json:"status,omitempty" validate:"omitempty,oneof=todo abierto en_proceso cerrado"`
	FromDate        string `json:"fromDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FromTime        string `json:"fromTime,omitempty" validate:"omitempty,datetime=15:04"`
	ToDate          string `json:"toDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ToTime          string `json:"toTime,omitempty" validate:"omitempty,datetime=15:04"`
	IncludeArchived bool   `json:"includeArchived"`
}

// A half-filled pair is reported on the date field of the offending side,
// fromDate for the start of the range and toDate for the end.
func dispatchStructLevel(sl validator.StructLevel) {
	f := sl.Current().Interface().(DispatchFilter)

	if (f.FromDate == "") != (f.FromTime == "") {
		sl.ReportError(f.FromDate, "fromDate", "FromDate", tagPair, "fromDate, fromTime")
	}
	if (f.ToDate == "") != (f.ToTime == "") {
		sl.ReportError(f.ToDate, "toDate", "ToDate", tagPair, "toDate, toTime")
	}
}

func (f DispatchFilter) trimmed() DispatchFilter {
	f.ClientID = strings.TrimSpace(f.ClientID)
	f.SiteID = strings.TrimSpace(f.SiteID)
	f.Status = strings.TrimSpace(f.Status)
	f.FromDate = strings.TrimSpace(f.FromDate)
	f.FromTime = strings.TrimSpace(f.FromTime)
	f.ToDate = strings.TrimSpace(f.ToDate)
	f.ToTime = strings.TrimSpace(f.ToTime)
	return f
}

// ValidateDispatch checks f and returns it normalized, with surrounding
// whitespace removed and the status defaulted to "todo".
func ValidateDispatch(f DispatchFilter) (DispatchFilter, error) {
	f = f.trimmed()

	if err := fromValidator(validate.Struct(f)); err != nil {
		return DispatchFilter{}, err
	}

	if f.Status == "" {
		f.Status = DispatchStatusAll
	}

	return f, nil
}

// DateTimeRange holds the absolute bounds derived from a filter. A nil bound is open.
type DateTimeRange struct {
	From *time.Time
	To   *time.Time
}

const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// ISO renders both bounds the way browsers serialise dates, in UTC with
// millisecond precision. Open bounds render as empty strings.
func (r DateTimeRange) ISO() (from, to string) {
	if r.From != nil {
		from = r.From.UTC().Format(isoLayout)
	}
	if r.To != nil {
		to = r.To.UTC().Format(isoLayout)
	}
	return from, to
}

func combine(date, clock string, loc *time.Location) (*time.Time, error) {
	if date == "" || clock == "" {
		return nil, nil
	}

	t, err := time.ParseInLocation(dateLayout+"T"+timeLayout+":05", date+"T"+clock+":00", loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date and time %q %q: %w", date, clock, err)
	}
	return &t, nil
}

// ToDateTimeRange turns the date and time pairs of f into instants in loc.
// A nil loc is treated as UTC. A bound is left open when either half of its pair is missing.
func ToDateTimeRange(f DispatchFilter, loc *time.Location) (DateTimeRange, error) {
	if loc == nil {
		loc = time.UTC
	}

	from, err := combine(f.FromDate, f.FromTime, loc)
	if err != nil {
		return DateTimeRange{}, err
	}

	to, err := combine(f.ToDate, f.ToTime, loc)
	if err != nil {
		return DateTimeRange{}, err
	}

	return DateTimeRange{From: from, To: to}, nil
}
