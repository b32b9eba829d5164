package config

// EnvPrefix is passed to envconfig; individual fields carry fully prefixed tags.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names shared with tests and tooling.
const (
	EnvAppEnv   = "FILIERA_APP_ENV"
	EnvPort     = "FILIERA_APP_PORT"
	EnvDBDSN    = "FILIERA_DB_DSN"
	EnvDBHost   = "FILIERA_DB_HOST"
	EnvDBUser   = "FILIERA_DB_USER"
	EnvDBName   = "FILIERA_DB_NAME"
	EnvRedisURL = "FILIERA_REDIS_URL"

	EnvJWTSecret  = "FILIERA_JWT_SECRET"
	EnvJWTIssuer  = "FILIERA_JWT_ISSUER"
	EnvJWTExpMins = "FILIERA_JWT_EXPIRATION_MINUTES"

	EnvAdminEmail        = "FILIERA_ADMIN_EMAIL"
	EnvAdminPasswordHash = "FILIERA_ADMIN_PASSWORD_HASH"

	EnvGCPProjectID      = "FILIERA_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic = "FILIERA_PUBSUB_ORDERS_TOPIC"
	EnvPubSubDomainTopic = "FILIERA_PUBSUB_DOMAIN_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
