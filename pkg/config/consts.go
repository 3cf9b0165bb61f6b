package config

const (
	// EnvPrefix namespaces every environment variable we read.
	EnvPrefix = "PALLETBASE"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "PALLETBASE_APP_ENV"
	EnvDBDSN  = "PALLETBASE_DB_DSN"
	EnvDBHost = "PALLETBASE_DB_HOST"
	EnvDBUser = "PALLETBASE_DB_USER"
	EnvDBName = "PALLETBASE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
