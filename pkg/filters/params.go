// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package filters

import (
	"net/url"
	"strconv"
	"time"
)

// Query parameter names shared by the console client and the API.
const (
	ParamClientID        = "clientId"
	ParamSiteID          = "siteId"
	ParamCategoryID      = "categoryId"
	ParamStatus          = "status"
	ParamFromDate        = "fromDate"
	ParamFromTime        = "fromTime"
	ParamToDate          = "toDate"
	ParamToTime          = "toTime"
	ParamFrom            = "from"
	ParamTo              = "to"
	ParamIncludeArchived = "includeArchived"
	ParamPage            = "page"
	ParamPerPage         = "perPage"
)

func setIfNotEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

// Values encodes a validated dispatch filter with its already resolved range.
// The date and time pairs are replaced by the absolute from/to instants.
func (f DispatchFilter) Values(r DateTimeRange) url.Values {
	v := url.Values{}
	setIfNotEmpty(v, ParamClientID, f.ClientID)
	setIfNotEmpty(v, ParamSiteID, f.SiteID)
	setIfNotEmpty(v, ParamStatus, f.Status)

	from, to := r.ISO()
	setIfNotEmpty(v, ParamFrom, from)
	setIfNotEmpty(v, ParamTo, to)

	v.Set(ParamIncludeArchived, strconv.FormatBool(f.IncludeArchived))
	return v
}

// DecodeDispatch reads a dispatch filter from query parameters. Absolute from/to
// instants are returned in the range when present; the caller resolves any
// date and time pairs itself. The filter is not validated.
func DecodeDispatch(v url.Values) (DispatchFilter, DateTimeRange, error) {
	f := DispatchFilter{
		ClientID: v.Get(ParamClientID),
		SiteID:   v.Get(ParamSiteID),
		Status:   v.Get(ParamStatus),
		FromDate: v.Get(ParamFromDate),
		FromTime: v.Get(ParamFromTime),
		ToDate:   v.Get(ParamToDate),
		ToTime:   v.Get(ParamToTime),
	}

	verr := new(ValidationError)

	if raw := v.Get(ParamIncludeArchived); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			verr.add(ParamIncludeArchived, "includeArchived must be true or false")
		}
		f.IncludeArchived = b
	}

	var r DateTimeRange
	bounds := []struct {
		key   string
		bound **time.Time
	}{
		{ParamFrom, &r.From},
		{ParamTo, &r.To},
	}
	for _, b := range bounds {
		key, bound := b.key, b.bound
		raw := v.Get(key)
		if raw == "" {
			continue
		}

		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			verr.add(key, key+" must be an RFC 3339 timestamp")
			continue
		}
		*bound = &t
	}

	if err := verr.orNil(); err != nil {
		return DispatchFilter{}, DateTimeRange{}, err
	}
	return f, r, nil
}

func (f VehicleFilter) Values() url.Values {
	v := url.Values{}
	setIfNotEmpty(v, ParamCategoryID, f.CategoryID)
	setIfNotEmpty(v, ParamStatus, f.Status)
	if f.Page > 0 {
		v.Set(ParamPage, strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		v.Set(ParamPerPage, strconv.Itoa(f.PerPage))
	}
	return v
}

func DecodeVehicle(v url.Values) (VehicleFilter, error) {
	verr := new(ValidationError)

	f := VehicleFilter{
		CategoryID: v.Get(ParamCategoryID),
		Status:     v.Get(ParamStatus),
		Page:       intParam(v, ParamPage, verr),
		PerPage:    intParam(v, ParamPerPage, verr),
	}

	if err := verr.orNil(); err != nil {
		return VehicleFilter{}, err
	}
	return f, nil
}

func (f InvoiceFilter) Values() url.Values {
	v := url.Values{}
	setIfNotEmpty(v, ParamClientID, f.ClientID)
	setIfNotEmpty(v, ParamStatus, f.Status)
	setIfNotEmpty(v, ParamFromDate, f.FromDate)
	setIfNotEmpty(v, ParamToDate, f.ToDate)
	if f.Page > 0 {
		v.Set(ParamPage, strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		v.Set(ParamPerPage, strconv.Itoa(f.PerPage))
	}
	return v
}

func DecodeInvoice(v url.Values) (InvoiceFilter, error) {
	verr := new(ValidationError)

	f := InvoiceFilter{
		ClientID: v.Get(ParamClientID),
		Status:   v.Get(ParamStatus),
		FromDate: v.Get(ParamFromDate),
		ToDate:   v.Get(ParamToDate),
		Page:     intParam(v, ParamPage, verr),
		PerPage:  intParam(v, ParamPerPage, verr),
	}

	if err := verr.orNil(); err != nil {
		return InvoiceFilter{}, err
	}
	return f, nil
}

func intParam(v url.Values, key string, verr *ValidationError) int {
	raw := v.Get(key)
	if raw == "" {
		return 0
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		verr.add(key, key+" must be a whole number")
		return 0
	}
	return n
}
