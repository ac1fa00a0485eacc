// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/canonical/dispatch-console/internal/authorization"
	"github.com/canonical/dispatch-console/internal/config"
	"github.com/canonical/dispatch-console/internal/db"
	"github.com/canonical/dispatch-console/internal/kratos"
	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/internal/monitoring/prometheus"
	"github.com/canonical/dispatch-console/internal/openfga"
	"github.com/canonical/dispatch-console/internal/storage"
	"github.com/canonical/dispatch-console/internal/tracing"
	"github.com/canonical/dispatch-console/pkg/authentication"
	"github.com/canonical/dispatch-console/pkg/listings"
	"github.com/canonical/dispatch-console/pkg/status"
	"github.com/canonical/dispatch-console/pkg/tenant"
	"github.com/canonical/dispatch-console/pkg/tenantcache"
	"github.com/canonical/dispatch-console/pkg/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the console API, list of environment variables is available in the readme`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		return fmt.Errorf("issues with environment sourcing: %w", err)
	}

	logger := logging.NewLogger(specs.LogLevel)
	logger.Debugf("env vars: %v", specs)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("dispatch-console", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	dbConfig := db.Config{
		DSN:             specs.DSN,
		MaxConns:        specs.DBMaxConns,
		MinConns:        specs.DBMinConns,
		MaxConnLifetime: specs.DBMaxConnLifetime,
		MaxConnIdleTime: specs.DBMaxConnIdleTime,
		TracingEnabled:  specs.TracingEnabled,
	}
	dbClient, err := db.NewDBClient(dbConfig, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to create database client: %w", err)
	}
	defer dbClient.Close()
	s := storage.NewStorage(dbClient, tracer, monitor, logger)

	var (
		authorizer *authorization.Authorizer
		tenantOpts []tenant.Option
	)
	if specs.AuthorizationEnabled {
		authorizer = authorization.NewAuthorizer(
			openfga.NewClient(
				openfga.NewConfig(
					specs.OpenfgaApiScheme,
					specs.OpenfgaApiHost,
					specs.OpenfgaStoreId,
					specs.OpenfgaApiToken,
					specs.OpenfgaModelId,
					specs.Debug,
					tracer,
					monitor,
					logger,
				),
			),
			tracer,
			monitor,
			logger,
		)
		logger.Info("Authorization is enabled")
	} else {
		authorizer = authorization.NewAuthorizer(
			openfga.NewNoopClient(tracer, monitor, logger),
			tracer,
			monitor,
			logger,
		)
		logger.Info("Using noop authorizer")
		tenantOpts = append(tenantOpts, tenant.WithoutCachedReads())
	}

	kratosClient := kratos.NewClient(
		specs.KratosAdminURL,
		tracer,
		monitor,
		logger,
	)

	dependencies := map[string]status.PingerInterface{"database": dbClient}

	var caches tenantcache.Provider
	if specs.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     specs.RedisAddr,
			Password: specs.RedisPassword,
			DB:       specs.RedisDB,
		})
		defer rdb.Close()

		redisCaches := tenantcache.NewRedisProvider(rdb, specs.TenantCacheTTL)
		dependencies["redis"] = redisCaches
		caches = redisCaches
		logger.Infof("Caching tenant ids in redis at %s", specs.RedisAddr)
	} else {
		caches = tenantcache.NewMemoryProvider()
		logger.Info("Caching tenant ids in memory")
	}

	verifier, err := authentication.NewAuthenticator(
		context.Background(),
		authentication.Settings{
			Enabled:         specs.AuthenticationEnabled,
			Issuer:          specs.OIDCIssuer,
			JWKSURL:         specs.OIDCJWKSURL,
			AllowedSubjects: specs.OIDCAllowedSubjects,
			RequiredScope:   specs.OIDCRequiredScope,
		},
		tracer,
		monitor,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to set up authentication: %w", err)
	}

	var authOpts []authentication.Option
	if specs.AuthenticationIdentityHeader {
		logger.Infof("Trusting %s when no bearer token is sent", authentication.IdentityHeader)
		authOpts = append(authOpts, authentication.WithIdentityHeader())
	}
	authMiddleware := authentication.NewMiddleware(verifier, tracer, monitor, logger, authOpts...)

	tenantService := tenant.NewService(
		s,
		authorizer,
		kratosClient,
		caches,
		specs.InvitationLifetime,
		specs.DefaultTimezone,
		tracer,
		monitor,
		logger,
		tenantOpts...,
	)
	listingsService := listings.NewService(
		tenantService,
		s,
		specs.DefaultTimezone,
		tracer,
		monitor,
		logger,
	)

	router := web.NewRouter(
		tenantService,
		listingsService,
		authMiddleware,
		dbClient,
		dependencies,
		specs.AllowedOrigins,
		tracer,
		monitor,
		logger,
	)
	logger.Infof("Starting HTTP server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}
