// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package gate

type State int

const (
	// ClosedSuppressed is closed and stays closed until Open is called again.
	ClosedSuppressed State = iota
	// ClosedPendingReopen is closed with a reopen timer armed.
	ClosedPendingReopen
	OpenJoin
	OpenCreate
)

func (s State) String() string {
	switch s {
	case ClosedSuppressed:
		return "closed"
	case ClosedPendingReopen:
		return "closed-pending-reopen"
	case OpenJoin:
		return "open-join"
	case OpenCreate:
		return "open-create"
	default:
		return "unknown"
	}
}

func (s State) IsOpen() bool {
	return s == OpenJoin || s == OpenCreate
}

type Tab int

const (
	TabJoin Tab = iota
	TabCreate
)

func (t Tab) state() State {
	if t == TabCreate {
		return OpenCreate
	}
	return OpenJoin
}
