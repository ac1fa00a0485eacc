// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package gate drives the prompt asking a user without a tenant to join
// one with an invitation code or to create their own.
package gate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/pkg/filters"
	"github.com/canonical/dispatch-console/pkg/refresh"
	"github.com/canonical/dispatch-console/pkg/tenantcache"
	v0 "github.com/canonical/dispatch-console/v0"
)

const (
	DefaultReloadDelay = time.Second
	DefaultReopenDelay = 25 * time.Second

	placeholder = "N/A"
)

var (
	ErrNotOpen  = errors.New("gate is not open")
	ErrBusy     = errors.New("a submission is already in progress")
	ErrWrongTab = errors.New("form belongs to another tab")
	ErrClosed   = errors.New("gate has been shut down")
)

// Callbacks are invoked outside the gate lock, possibly from timer goroutines.
type Callbacks struct {
	OnClose  func()
	OnOpen   func()
	OnReload func(tenantID string)
	OnNotify func(err error)
}

type Config struct {
	ReloadDelay time.Duration
	ReopenDelay time.Duration
	Policy      refresh.Policy
	Clock       Clock
}

// Draft is the content of the prompt forms, reset on every Open.
type Draft struct {
	Code   string
	Create v0.CreateTenantRequest
}

type Gate struct {
	mu sync.Mutex

	state State
	draft Draft
	busy  bool
	shut  bool

	// gen is bumped on every transition; timers armed under an older value do nothing
	gen    uint64
	reopen Timer
	reload Timer

	ctx    context.Context
	cancel context.CancelFunc

	session SessionInterface
	tenants TenantClientInterface
	cache   tenantcache.Cache

	cfg       Config
	callbacks Callbacks

	logger logging.LoggerInterface
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

func (g *Gate) Draft() Draft {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.draft
}

// stopReopen must be called with the lock held.
func (g *Gate) stopReopen() {
	if g.reopen != nil {
		g.reopen.Stop()
		g.reopen = nil
	}
}

func (g *Gate) notifyClose() {
	if g.callbacks.OnClose != nil {
		g.callbacks.OnClose()
	}
}

func (g *Gate) notifyOpen() {
	if g.callbacks.OnOpen != nil {
		g.callbacks.OnOpen()
	}
}

func (g *Gate) notify(err error) {
	if g.callbacks.OnNotify != nil {
		g.callbacks.OnNotify(err)
	}
}

// Open shows the prompt unless the user already belongs to a tenant, in which
// case the gate is suppressed and OnClose runs before Open returns.
func (g *Gate) Open(ctx context.Context) {
	_, hasTenant := g.session.ActiveTenantID(ctx)

	g.mu.Lock()
	if g.shut {
		g.mu.Unlock()
		return
	}

	g.gen++
	g.stopReopen()

	if hasTenant {
		g.state = ClosedSuppressed
		g.mu.Unlock()

		g.logger.Debug("tenant gate suppressed, user already has a tenant")
		g.notifyClose()
		return
	}

	g.state = OpenJoin
	g.draft = Draft{}
	g.mu.Unlock()

	g.logger.Debug("tenant gate opened")
}

// SelectTab switches between the join and create forms of an open gate.
func (g *Gate) SelectTab(tab Tab) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.state.IsOpen() {
		return ErrNotOpen
	}

	g.state = tab.state()
	return nil
}

// Cancel closes the prompt for good. It will not come back until Open is called.
func (g *Gate) Cancel() {
	g.mu.Lock()
	if g.shut {
		g.mu.Unlock()
		return
	}

	wasOpen := g.state.IsOpen()
	g.gen++
	g.stopReopen()
	g.state = ClosedSuppressed
	g.mu.Unlock()

	if wasOpen {
		g.notifyClose()
	}
}

// Dismiss closes the prompt and schedules it to come back after the reopen delay
// if the user still has no tenant by then.
func (g *Gate) Dismiss() {
	g.mu.Lock()
	if g.shut || !g.state.IsOpen() {
		g.mu.Unlock()
		return
	}

	g.gen++
	gen := g.gen
	g.stopReopen()
	g.state = ClosedPendingReopen
	g.reopen = g.cfg.Clock.AfterFunc(g.cfg.ReopenDelay, func() { g.fireReopen(gen) })
	g.mu.Unlock()

	g.notifyClose()
}

func (g *Gate) current(gen uint64) bool {
	return !g.shut && g.gen == gen
}

func (g *Gate) fireReopen(gen uint64) {
	g.mu.Lock()
	if !g.current(gen) || g.state != ClosedPendingReopen {
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	hasTenant := g.session.HasActiveTenant()
	if profile, err := g.session.Refresh(g.ctx); err != nil {
		g.logger.Warnf("failed to refresh profile before reopening tenant gate: %v", err)
	} else {
		hasTenant = profile.HasActiveTenant()
	}

	g.mu.Lock()
	if !g.current(gen) || g.state != ClosedPendingReopen {
		g.mu.Unlock()
		return
	}

	g.reopen = nil
	g.gen++

	if hasTenant {
		g.state = ClosedSuppressed
		g.mu.Unlock()
		return
	}

	g.state = OpenJoin
	g.draft = Draft{}
	g.mu.Unlock()

	g.notifyOpen()
}

// begin reserves the gate for a submission from one of the given states.
func (g *Gate) begin(allowed ...State) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case g.shut:
		return ErrClosed
	case !g.state.IsOpen():
		return ErrNotOpen
	case g.busy:
		return ErrBusy
	}

	for _, s := range allowed {
		if g.state == s {
			g.busy = true
			return nil
		}
	}
	return ErrWrongTab
}

func (g *Gate) release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}

// SubmitInvitation redeems an invitation code. Failures are reported through
// OnNotify and leave the gate open so the user can retry.
func (g *Gate) SubmitInvitation(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)

	if err := g.begin(OpenJoin, OpenCreate); err != nil {
		return err
	}
	defer g.release()

	g.mu.Lock()
	g.draft.Code = code
	g.mu.Unlock()

	if code == "" {
		return &filters.ValidationError{Errors: []filters.FieldError{{Field: "code", Message: "code is required"}}}
	}

	tenantID, err := g.tenants.AcceptInvitation(ctx, code)
	if err != nil {
		g.logger.Errorf("failed to accept invitation: %v", err)
		g.notify(err)
		return err
	}

	g.joined(ctx, tenantID)
	return nil
}

// SubmitCreate registers a new tenant from the create form.
func (g *Gate) SubmitCreate(ctx context.Context, form v0.CreateTenantRequest) error {
	if err := g.begin(OpenCreate); err != nil {
		return err
	}
	defer g.release()

	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Address = strings.TrimSpace(form.Address)
	form.TaxNumber = strings.TrimSpace(form.TaxNumber)
	form.BusinessTitle = strings.TrimSpace(form.BusinessTitle)

	g.mu.Lock()
	g.draft.Create = form
	g.mu.Unlock()

	if err := filters.Struct(form); err != nil {
		return err
	}

	if form.TaxNumber == "" {
		form.TaxNumber = placeholder
	}
	if form.BusinessTitle == "" {
		form.BusinessTitle = placeholder
	}

	tenantID, err := g.tenants.CreateTenant(ctx, form)
	if err != nil {
		g.logger.Errorf("failed to create tenant: %v", err)
		g.notify(err)
		return err
	}

	g.joined(ctx, tenantID)
	return nil
}

// joined waits for the new membership to show on the profile, closes the
// gate and schedules the reload into the tenant.
func (g *Gate) joined(ctx context.Context, tenantID string) {
	if err := g.cache.Set(ctx, tenantID); err != nil {
		g.logger.Warnf("failed to cache tenant id: %v", err)
	}

	outcome, err := g.cfg.Policy.Run(
		ctx,
		func(ctx context.Context) (bool, error) {
			profile, err := g.session.Refresh(ctx)
			if err != nil {
				return false, err
			}
			return profile.HasActiveTenant(), nil
		},
		func(ctx context.Context) error {
			_, err := g.session.Refresh(ctx)
			return err
		},
	)
	if err != nil {
		g.logger.Warnf("profile refresh after joining tenant %s ended with: %v", tenantID, err)
	} else {
		g.logger.Debugf("profile refresh after joining tenant %s %s", tenantID, outcome)
	}

	g.mu.Lock()
	if g.shut {
		g.mu.Unlock()
		return
	}

	g.gen++
	g.stopReopen()
	g.state = ClosedSuppressed
	g.reload = g.cfg.Clock.AfterFunc(g.cfg.ReloadDelay, func() { g.fireReload(tenantID) })
	g.mu.Unlock()

	g.notifyClose()
}

func (g *Gate) fireReload(tenantID string) {
	g.mu.Lock()
	shut := g.shut
	g.reload = nil
	g.mu.Unlock()

	if shut || g.callbacks.OnReload == nil {
		return
	}
	g.callbacks.OnReload(tenantID)
}

// Close stops every timer. Callbacks of timers already firing become no-ops.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.shut {
		return
	}

	g.shut = true
	g.gen++
	g.stopReopen()
	if g.reload != nil {
		g.reload.Stop()
		g.reload = nil
	}
	g.state = ClosedSuppressed
	g.cancel()
}

func NewGate(
	session SessionInterface,
	tenants TenantClientInterface,
	cache tenantcache.Cache,
	cfg Config,
	callbacks Callbacks,
	logger logging.LoggerInterface,
) *Gate {
	if cfg.ReloadDelay <= 0 {
		cfg.ReloadDelay = DefaultReloadDelay
	}
	if cfg.ReopenDelay <= 0 {
		cfg.ReopenDelay = DefaultReopenDelay
	}
	if cfg.Policy.MaxAttempts == 0 {
		cfg.Policy = refresh.DefaultPolicy
	}
	if cfg.Clock == nil {
		cfg.Clock = wallClock{}
	}

	g := new(Gate)

	g.ctx, g.cancel = context.WithCancel(context.Background())
	g.state = ClosedSuppressed
	g.session = session
	g.tenants = tenants
	g.cache = cache
	g.cfg = cfg
	g.callbacks = callbacks
	g.logger = logger

	return g
}
