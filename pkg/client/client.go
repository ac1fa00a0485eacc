// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/pkg/filters"
	"github.com/canonical/dispatch-console/pkg/membership"
	v0 "github.com/canonical/dispatch-console/v0"
)

const DefaultCountriesURL = "https://restcountries.com/v3.1/all?fields=name,cca2"

// Client talks to the console API on behalf of the signed in user.
type Client struct {
	http         *resty.Client
	countriesURL string

	logger logging.LoggerInterface
}

type Option func(*Client)

func WithCountriesURL(u string) Option {
	return func(c *Client) { c.countriesURL = u }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result interface{}) error {
	apiErr := new(v0.ErrorResponse)

	req := c.http.R().
		SetContext(ctx).
		SetError(apiErr)

	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if !resp.IsError() {
		return nil
	}

	c.logger.Debugf("%s %s returned %d", method, path, resp.StatusCode())

	if resp.StatusCode() == http.StatusBadRequest && len(apiErr.Errors) > 0 {
		return &filters.ValidationError{Errors: apiErr.Errors}
	}

	message := apiErr.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode())
	}

	return &APIError{Status: resp.StatusCode(), Message: message, Fields: apiErr.Errors}
}

func (c *Client) GetProfile(ctx context.Context) (*membership.Profile, error) {
	profile := new(membership.Profile)
	if err := c.do(ctx, http.MethodGet, "/profile", nil, nil, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// tenantRef covers both id spellings the tenant endpoints have used.
type tenantRef struct {
	TenantID string `json:"tenantId"`
	ID       string `json:"id"`
}

// AcceptInvitation redeems code and returns the tenant joined.
func (c *Client) AcceptInvitation(ctx context.Context, code string) (string, error) {
	ref := new(tenantRef)
	body := v0.AcceptInvitationRequest{Code: code}

	if err := c.do(ctx, http.MethodPost, "/tenants/invitations/accept", nil, body, ref); err != nil {
		return "", err
	}

	id := ref.TenantID
	if id == "" {
		id = ref.ID
	}
	if id == "" {
		return "", ErrMissingTenantID
	}
	return id, nil
}

// CreateTenant registers a tenant owned by the caller and returns its id.
func (c *Client) CreateTenant(ctx context.Context, payload v0.CreateTenantRequest) (string, error) {
	ref := new(tenantRef)

	if err := c.do(ctx, http.MethodPost, "/tenants", nil, payload, ref); err != nil {
		return "", err
	}

	id := ref.ID
	if id == "" {
		id = ref.TenantID
	}
	if id == "" {
		return "", ErrMissingTenantID
	}
	return id, nil
}

// CreateInvitation issues an invitation code for email on tenantID.
func (c *Client) CreateInvitation(ctx context.Context, req v0.CreateInvitationRequest) (*v0.CreateInvitationResponse, error) {
	out := new(v0.CreateInvitationResponse)
	if err := c.do(ctx, http.MethodPost, "/tenants/invitations", nil, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FindTenantByID(ctx context.Context, id string) (*v0.Tenant, error) {
	tenant := new(v0.Tenant)
	if err := c.do(ctx, http.MethodGet, "/tenants/"+url.PathEscape(id), nil, nil, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// ListTickets validates f, resolves its range in loc and queries the tenant's tickets.
// An invalid filter never reaches the network.
func (c *Client) ListTickets(ctx context.Context, tenantID string, f filters.DispatchFilter, loc *time.Location) ([]v0.Ticket, error) {
	f, err := filters.ValidateDispatch(f)
	if err != nil {
		return nil, err
	}

	r, err := filters.ToDateTimeRange(f, loc)
	if err != nil {
		return nil, err
	}

	out := new(v0.ListTicketsResponse)
	path := "/tenants/" + url.PathEscape(tenantID) + "/tickets"
	if err := c.do(ctx, http.MethodGet, path, f.Values(r), nil, out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) ListVehicles(ctx context.Context, tenantID string, f filters.VehicleFilter) (*v0.ListVehiclesResponse, error) {
	f, err := filters.ValidateVehicle(f)
	if err != nil {
		return nil, err
	}

	out := new(v0.ListVehiclesResponse)
	path := "/tenants/" + url.PathEscape(tenantID) + "/vehicles"
	if err := c.do(ctx, http.MethodGet, path, f.Values(), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListInvoices(ctx context.Context, tenantID string, f filters.InvoiceFilter) (*v0.ListInvoicesResponse, error) {
	f, err := filters.ValidateInvoice(f)
	if err != nil {
		return nil, err
	}

	out := new(v0.ListInvoicesResponse)
	path := "/tenants/" + url.PathEscape(tenantID) + "/invoices"
	if err := c.do(ctx, http.MethodGet, path, f.Values(), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

type Country struct {
	Code string
	Name string
}

type countryDoc struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2 string `json:"cca2"`
}

// ListCountries fetches the country catalogue sorted by name. Cancelling ctx
// aborts the request in flight.
func (c *Client) ListCountries(ctx context.Context) ([]Country, error) {
	var docs []countryDoc

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&docs).
		Get(c.countriesURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch countries: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Message: strings.TrimSpace(resp.String())}
	}

	countries := make([]Country, 0, len(docs))
	for _, d := range docs {
		if d.CCA2 == "" || d.Name.Common == "" {
			continue
		}
		countries = append(countries, Country{Code: d.CCA2, Name: d.Name.Common})
	}

	sort.Slice(countries, func(i, j int) bool { return countries[i].Name < countries[j].Name })

	return countries, nil
}

// NewClient builds a client for the API rooted at baseURL, e.g. https://console.example.com.
func NewClient(baseURL string, logger logging.LoggerInterface, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")+v0.PathPrefix).
			SetTimeout(30*time.Second).
			SetHeader("Accept", "application/json"),
		countriesURL: DefaultCountriesURL,
		logger:       logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}
