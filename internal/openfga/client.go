// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package openfga

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openfga/go-sdk/client"
	"github.com/openfga/go-sdk/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/internal/monitoring"
	"github.com/canonical/dispatch-console/internal/tracing"
)

type Client struct {
	c *client.OpenFgaClient

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (c *Client) setAvailability(err error) {
	v := 1.0
	if err != nil {
		v = 0
	}
	_ = c.monitor.SetDependencyAvailability(map[string]string{"component": "openfga"}, v)
}

func (c *Client) Check(ctx context.Context, user, relation, object string, tuples ...Tuple) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.Check")
	defer span.End()

	body := client.ClientCheckRequest{
		User:     user,
		Relation: relation,
		Object:   object,
	}
	for _, t := range tuples {
		body.ContextualTuples = append(body.ContextualTuples, t.contextual())
	}

	r, err := c.c.Check(ctx).Body(body).Execute()
	c.setAvailability(err)
	if err != nil {
		c.logger.Errorf("issue when performing check: %s", err)
		return false, err
	}

	return r.GetAllowed(), nil
}

func (c *Client) ListObjects(ctx context.Context, user, relation, objectType string) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.ListObjects")
	defer span.End()

	r, err := c.c.ListObjects(ctx).Body(
		client.ClientListObjectsRequest{
			User:     user,
			Relation: relation,
			Type:     objectType,
		},
	).Execute()
	c.setAvailability(err)
	if err != nil {
		c.logger.Errorf("issue when listing objects: %s", err)
		return nil, err
	}

	return r.GetObjects(), nil
}

func (c *Client) WriteTuple(ctx context.Context, user, relation, object string) error {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.WriteTuple")
	defer span.End()

	_, err := c.c.Write(ctx).Body(
		client.ClientWriteRequest{
			Writes: []client.ClientTupleKey{{User: user, Relation: relation, Object: object}},
		},
	).Execute()
	c.setAvailability(err)
	if err != nil {
		return fmt.Errorf("failed to write tuple %s#%s@%s: %w", object, relation, user, err)
	}

	return nil
}

func (c *Client) DeleteTuple(ctx context.Context, user, relation, object string) error {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.DeleteTuple")
	defer span.End()

	_, err := c.c.Write(ctx).Body(
		client.ClientWriteRequest{
			Deletes: []client.ClientTupleKeyWithoutCondition{{User: user, Relation: relation, Object: object}},
		},
	).Execute()
	c.setAvailability(err)
	if err != nil {
		return fmt.Errorf("failed to delete tuple %s#%s@%s: %w", object, relation, user, err)
	}

	return nil
}

func NewClient(cfg *Config) *Client {
	c := new(Client)

	c.tracer = cfg.Tracer
	c.monitor = cfg.Monitor
	c.logger = cfg.Logger

	fga, err := client.NewSdkClient(
		&client.ClientConfiguration{
			ApiUrl:               cfg.url(),
			StoreId:              cfg.StoreID,
			AuthorizationModelId: cfg.AuthModelID,
			Credentials: &credentials.Credentials{
				Method: credentials.CredentialsMethodApiToken,
				Config: &credentials.Config{
					ApiToken: cfg.ApiToken,
				},
			},
			Debug: cfg.Debug,
			HTTPClient: &http.Client{
				Transport: otelhttp.NewTransport(http.DefaultTransport),
			},
		},
	)
	if err != nil {
		c.logger.Fatalf("issue when setting up openfga client: %s", err)
	}

	c.c = fga
	return c
}
