package config

const (
	EnvPrefix = "BACKOFFICE"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "BACKOFFICE_APP_ENV"
	EnvPort     = "BACKOFFICE_APP_PORT"
	EnvDBDSN    = "BACKOFFICE_DB_DSN"
	EnvDBHost   = "BACKOFFICE_DB_HOST"
	EnvDBUser   = "BACKOFFICE_DB_USER"
	EnvDBName   = "BACKOFFICE_DB_NAME"
	EnvRedisURL = "BACKOFFICE_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
