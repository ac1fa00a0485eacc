// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tracing

import (
	"github.com/canonical/dispatch-console/internal/logging"
)

// Config selects the span exporter: OTLP over gRPC wins over OTLP over HTTP,
// stdout is used when tracing is enabled without any endpoint.
type Config struct {
	ServiceName      string
	OtelHTTPEndpoint string
	OtelGRPCEndpoint string
	Logger           logging.LoggerInterface

	Enabled bool
}

func NewConfig(enabled bool, otelGRPCEndpoint, otelHTTPEndpoint string, logger logging.LoggerInterface) *Config {
	return &Config{
		ServiceName:      serviceName,
		OtelGRPCEndpoint: otelGRPCEndpoint,
		OtelHTTPEndpoint: otelHTTPEndpoint,
		Logger:           logger,
		Enabled:          enabled,
	}
}

func NewNoopConfig() *Config {
	return &Config{
		ServiceName: serviceName,
		Logger:      logging.NewNoopLogger(),
	}
}

func (c *Config) name() string {
	if c.ServiceName == "" {
		return serviceName
	}
	return c.ServiceName
}
