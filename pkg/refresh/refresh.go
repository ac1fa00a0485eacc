// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package refresh polls for an eventually consistent condition a bounded
// number of times before falling back to an unconditional action.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
)

type Outcome int

const (
	Resolved Outcome = iota + 1
	FellBack
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case FellBack:
		return "fell back"
	default:
		return "unknown"
	}
}

// Timer abstracts the wait between attempts.
type Timer interface {
	After(time.Duration) <-chan time.Time
}

// CheckFunc reports whether the awaited condition holds. An error counts as "not yet".
type CheckFunc func(context.Context) (bool, error)

type Policy struct {
	MaxAttempts uint
	Interval    time.Duration

	timer Timer
}

// DefaultPolicy waits up to roughly three seconds for a new membership to show on the profile.
var DefaultPolicy = Policy{MaxAttempts: 6, Interval: 500 * time.Millisecond}

var errNotYet = errors.New("condition not met")

// WithTimer returns a copy of p that waits on t instead of the wall clock.
func (p Policy) WithTimer(t Timer) Policy {
	p.timer = t
	return p
}

// Run calls check until it succeeds or MaxAttempts calls have been made,
// Interval apart. When every attempt fails fallback is called exactly once.
// A cancelled ctx stops the loop and skips the fallback.
func (p Policy) Run(ctx context.Context, check CheckFunc, fallback func(context.Context) error) (Outcome, error) {
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(p.Interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	}
	if p.timer != nil {
		opts = append(opts, retry.WithTimer(p.timer))
	}

	err := retry.Do(
		func() error {
			ok, err := check(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return errNotYet
			}
			return nil
		},
		opts...,
	)

	if err == nil {
		return Resolved, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}

	if err := fallback(ctx); err != nil {
		return FellBack, fmt.Errorf("refresh fallback failed: %w", err)
	}

	return FellBack, nil
}
