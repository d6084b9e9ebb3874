package config

// EnvPrefix namespaces every environment variable the app reads.
const EnvPrefix = "VAPORLAB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv        = "VAPORLAB_APP_ENV"
	EnvPort          = "VAPORLAB_APP_PORT"
	EnvDBDSN         = "VAPORLAB_DB_DSN"
	EnvDBHost        = "VAPORLAB_DB_HOST"
	EnvDBUser        = "VAPORLAB_DB_USER"
	EnvDBName        = "VAPORLAB_DB_NAME"
	EnvRedisURL      = "VAPORLAB_REDIS_URL"
	EnvJWTSecret     = "VAPORLAB_JWT_SECRET"
	EnvJWTIssuer     = "VAPORLAB_JWT_ISSUER"
	EnvJWTExpMins    = "VAPORLAB_JWT_EXPIRATION_MINUTES"
	EnvCloudinaryURL = "VAPORLAB_CLOUDINARY_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
