// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

const securityLoggerName = "security"

type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) AuthzFailure(userID, resource string) {
	s.l.Warn(
		"authorization failure",
		zap.String("event", "authz_fail:"+userID+","+resource),
		zap.String("user_id", userID),
		zap.String("resource", resource),
	)
}

func (s *SecurityLogger) TenantJoined(userID, tenantID, via string) {
	s.l.Info(
		"tenant membership granted",
		zap.String("event", "tenant_join:"+userID+","+tenantID),
		zap.String("user_id", userID),
		zap.String("tenant_id", tenantID),
		zap.String("via", via),
	)
}

func (s *SecurityLogger) SystemStartup() {
	s.l.Info("system startup", zap.String("event", "sys_startup"))
}

func (s *SecurityLogger) SystemShutdown() {
	s.l.Info("system shutdown", zap.String("event", "sys_shutdown"))
}

func newSecurityLogger(base *zap.Logger) *SecurityLogger {
	return &SecurityLogger{l: base.Named(securityLoggerName)}
}
