package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "tasker"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	WhatsApp WhatsAppConfig
	Push     PushConfig
	GCP      GCPConfig
	PubSub   PubSubConfig
	Intake   IntakeConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TASKER_APP_ENV" default:"dev"`
	Port         string `envconfig:"TASKER_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TASKER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TASKER_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"TASKER_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"TASKER_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"TASKER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TASKER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TASKER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TASKER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TASKER_REDIS_URL"`
	Address      string        `envconfig:"TASKER_REDIS_ADDR"`
	Password     string        `envconfig:"TASKER_REDIS_PASSWORD"`
	DB           int           `envconfig:"TASKER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TASKER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TASKER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TASKER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TASKER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TASKER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TASKER_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TASKER_JWT_ISSUER" default:"taskercompany-api"`
	ExpirationMinutes int    `envconfig:"TASKER_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TASKER_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TASKER_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TASKER_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TASKER_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TASKER_ARGON_KEY_LEN" default:"32"`
}

// WhatsAppConfig points at the Graph-API-shaped messaging gateway.
type WhatsAppConfig struct {
	BaseURL       string        `envconfig:"TASKER_WHATSAPP_BASE_URL" default:"https://graph.facebook.com/v21.0"`
	PhoneNumberID string        `envconfig:"TASKER_WHATSAPP_PHONE_NUMBER_ID"`
	Token         string        `envconfig:"TASKER_WHATSAPP_TOKEN"`
	VerifyToken   string        `envconfig:"TASKER_WHATSAPP_VERIFY_TOKEN"`
	Timeout       time.Duration `envconfig:"TASKER_WHATSAPP_TIMEOUT" default:"10s"`
	MaxRetries    uint64        `envconfig:"TASKER_WHATSAPP_MAX_RETRIES" default:"2"`
}

// PushConfig points at the Expo-shaped push delivery gateway.
type PushConfig struct {
	Endpoint   string        `envconfig:"TASKER_PUSH_ENDPOINT" default:"https://exp.host/--/api/v2/push/send"`
	Timeout    time.Duration `envconfig:"TASKER_PUSH_TIMEOUT" default:"10s"`
	MaxRetries uint64        `envconfig:"TASKER_PUSH_MAX_RETRIES" default:"2"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"TASKER_GCP_PROJECT_ID"`
}

// PubSubConfig names the broadcast topic CRM clients subscribe to.
type PubSubConfig struct {
	NotificationTopic string `envconfig:"TASKER_PUBSUB_NOTIFICATION_TOPIC" default:"notification-events"`
}

// IntakeConfig tunes the WhatsApp conversational intake bot.
type IntakeConfig struct {
	SessionTTL time.Duration `envconfig:"TASKER_INTAKE_SESSION_TTL" default:"30m"`
}
