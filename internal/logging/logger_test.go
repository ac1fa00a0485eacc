// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestDebugLogger(t *testing.T) {
	l := NewLogger("DEBUG")
	if l == nil || l.Security() == nil {
		t.Fatal("expected a logger with a security logger")
	}
	l.Debugf("debug %s", "enabled")
}

func TestInvalidLevelFallsBackToError(t *testing.T) {
	l := NewLogger("invalid")
	if l.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should not be enabled for an unknown level")
	}
}

func TestNoopLogger(t *testing.T) {
	l := NewNoopLogger()
	l.Security().TenantJoined("user-1", "tenant-1", "invitation")
	l.Security().AuthzFailure("user-1", "tenant:tenant-1")
	if err := l.Sync(); err != nil {
		t.Errorf("unexpected error syncing noop logger: %v", err)
	}
}
