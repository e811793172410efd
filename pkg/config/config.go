package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Admin         AdminConfig
	Storefront    StorefrontConfig
	Cart          CartConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Admin.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"LB_APP_ENV" required:"true"`
	Port         string   `envconfig:"LB_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"LB_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"LB_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"LB_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LB_DB_DSN"`
	Driver string `envconfig:"LB_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"LB_DB_HOST"`
	Port     int    `envconfig:"LB_DB_PORT" default:"5432"`
	User     string `envconfig:"LB_DB_USER"`
	Password string `envconfig:"LB_DB_PASSWORD"`
	Name     string `envconfig:"LB_DB_NAME"`
	SSLMode  string `envconfig:"LB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LB_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"LB_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"LB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LB_REDIS_URL"`
	Address      string        `envconfig:"LB_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"LB_REDIS_PASSWORD"`
	DB           int           `envconfig:"LB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LB_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"LB_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"LB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LB_JWT_ISSUER" default:"lb-storefront"`
	ExpirationMinutes int    `envconfig:"LB_JWT_EXPIRATION_MINUTES" default:"480"`
}

// AccessTTL returns the admin token lifetime.
func (j JWTConfig) AccessTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"LB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"LB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"LB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// AdminConfig seeds the bootstrap admin account. Email and password must be
// provided together.
type AdminConfig struct {
	Email       string `envconfig:"LB_ADMIN_EMAIL"`
	Password    string `envconfig:"LB_ADMIN_PASSWORD"`
	RequireAuth bool   `envconfig:"LB_ADMIN_REQUIRE_AUTH" default:"true"`
}

func (a AdminConfig) validate() error {
	if (a.Email == "") != (a.Password == "") {
		return fmt.Errorf("%s and %s must be set together", EnvAdminEmail, EnvAdminPassword)
	}
	return nil
}

// HasBootstrap reports whether a bootstrap admin is configured.
func (a AdminConfig) HasBootstrap() bool {
	return a.Email != "" && a.Password != ""
}

type StorefrontConfig struct {
	AppTitle       string `envconfig:"LB_STOREFRONT_APP_TITLE" default:"LB Store"`
	WhatsAppNumber string `envconfig:"LB_STOREFRONT_WHATSAPP_NUMBER" default:"65998182029"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"LB_CART_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LB_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
