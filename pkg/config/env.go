package config

const EnvPrefix = "LB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv        = "LB_APP_ENV"
	EnvPort          = "LB_APP_PORT"
	EnvDBDSN         = "LB_DB_DSN"
	EnvDBHost        = "LB_DB_HOST"
	EnvDBUser        = "LB_DB_USER"
	EnvDBName        = "LB_DB_NAME"
	EnvRedisURL      = "LB_REDIS_URL"
	EnvJWTSecret     = "LB_JWT_SECRET"
	EnvJWTIssuer     = "LB_JWT_ISSUER"
	EnvJWTExpMins    = "LB_JWT_EXPIRATION_MINUTES"
	EnvAdminEmail    = "LB_ADMIN_EMAIL"
	EnvAdminPassword = "LB_ADMIN_PASSWORD"
	EnvAdminAuth     = "LB_ADMIN_REQUIRE_AUTH"
	EnvWhatsApp      = "LB_STOREFRONT_WHATSAPP_NUMBER"
	EnvCartTTL       = "LB_CART_TTL"
	EnvAutoMigrate   = "LB_AUTO_MIGRATE"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
