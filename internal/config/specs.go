package config

import (
	"time"
)

// EnvSpec is the basic environment configuration setup needed for the app to start
type EnvSpec struct {
	OtelGRPCEndpoint string `envconfig:"otel_grpc_endpoint"`
	OtelHTTPEndpoint string `envconfig:"otel_http_endpoint"`
	TracingEnabled   bool   `envconfig:"tracing_enabled" default:"true"`

	KratosAdminURL string `envconfig:"kratos_admin_url" required:"true"`

	InvitationLifetime time.Duration `envconfig:"invitation_lifetime" default:"168h"`
	DefaultTimezone    string        `envconfig:"default_timezone" default:"UTC"`

	LogLevel string `envconfig:"log_level" default:"error"`
	Debug    bool   `envconfig:"debug" default:"false"`

	Port           int      `envconfig:"port" default:"8080"`
	AllowedOrigins []string `envconfig:"allowed_origins" default:"*"`

	DSN string `envconfig:"DSN" required:"true"`

	DBMaxConns        int32         `envconfig:"db_max_conns" default:"25"`
	DBMinConns        int32         `envconfig:"db_min_conns" default:"2"`
	DBMaxConnLifetime time.Duration `envconfig:"db_max_conn_lifetime" default:"1h"`
	DBMaxConnIdleTime time.Duration `envconfig:"db_max_conn_idle_time" default:"30m"`

	RedisAddr      string        `envconfig:"redis_addr"`
	RedisPassword  string        `envconfig:"redis_password"`
	RedisDB        int           `envconfig:"redis_db" default:"0"`
	TenantCacheTTL time.Duration `envconfig:"tenant_cache_ttl" default:"24h"`

	AuthenticationEnabled        bool     `envconfig:"authentication_enabled" default:"false"`
	AuthenticationIdentityHeader bool     `envconfig:"authentication_identity_header" default:"false"`
	OIDCIssuer                   string   `envconfig:"oidc_issuer"`
	OIDCJWKSURL                  string   `envconfig:"oidc_jwks_url"`
	OIDCRequiredScope            string   `envconfig:"oidc_required_scope"`
	OIDCAllowedSubjects          []string `envconfig:"oidc_allowed_subjects"`

	AuthorizationEnabled bool   `envconfig:"authorization_enabled" default:"false"`
	OpenfgaApiScheme     string `envconfig:"openfga_api_scheme" default:"http"`
	OpenfgaApiHost       string `envconfig:"openfga_api_host"`
	OpenfgaApiToken      string `envconfig:"openfga_api_token"`
	OpenfgaStoreId       string `envconfig:"openfga_store_id"`
	OpenfgaModelId       string `envconfig:"openfga_authorization_model_id" default:""`
}
