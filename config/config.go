package config

import (
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

type config struct {
	Port    int    `envconfig:"PORT" default:"8080"`
	Env     string `envconfig:"APP_ENV" default:"production"`
	BaseUrl string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	Log     struct {
		Level    string `envconfig:"LOG_LEVEL" default:"debug"`
		Format   string `envconfig:"LOG_FORMAT" default:"text"`
		Requests bool   `envconfig:"LOG_REQUESTS" default:"false"`
	}
	Drop struct {
		GatewayUrl      string        `envconfig:"DROP_GATEWAY_URL" default:"http://localhost:3005"`
		IndexerUrl      string        `envconfig:"DROP_INDEXER_URL" default:"http://localhost:3005/graphql"`
		ApiKey          string        `envconfig:"DROP_API_KEY"`
		Chain           string        `envconfig:"DROP_CHAIN" default:"polygon"`
		ModuleAddress   string        `envconfig:"DROP_MODULE_ADDRESS" default:"0x9dba0b76852c23176FaAc6082491e2138FfF2EDa"`
		ConfirmInterval time.Duration `envconfig:"DROP_CONFIRM_INTERVAL" default:"2s"`
		ConfirmTimeout  time.Duration `envconfig:"DROP_CONFIRM_TIMEOUT" default:"10m"`
	}
	Session struct {
		Secret            string        `envconfig:"SESSION_SECRET"`
		Store             string        `envconfig:"SESSION_STORE" default:"memory"`
		HighlightDuration time.Duration `envconfig:"HIGHLIGHT_DURATION" default:"3500ms"`
	}
	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}
	Cache struct {
		StoragePath string        `envconfig:"CACHE_STORAGE_PATH" default:"."`
		TTL         time.Duration `envconfig:"CACHE_TTL" default:"12h"`
	}
}

var cfg config

func LoadConfig() error {
	err := envconfig.Process("", &cfg)
	if err != nil {
		return err
	}
	return nil
}

func Config() config {
	return cfg
}

func Port() int {
	return cfg.Port
}

func BaseUrl() string {
	return strings.TrimRight(cfg.BaseUrl, "/")
}

func IsLocal() bool {
	return strings.ToLower(cfg.Env) == "local"
}

func LogLevel() zerolog.Level {
	switch strings.ToLower(cfg.Log.Level) {
	case "trace":
		return zerolog.TraceLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.DebugLevel
	}
}

func LogFormat() string {
	allowed := []string{"text", "json"}
	format := strings.ToLower(cfg.Log.Format)
	if slices.Contains(allowed, format) {
		return format
	}
	return "json"
}

func LogRequests() bool {
	return cfg.Log.Requests
}

func DropGatewayUrl() string {
	return strings.TrimRight(cfg.Drop.GatewayUrl, "/")
}

func DropIndexerUrl() string {
	return cfg.Drop.IndexerUrl
}

func DropApiKey() string {
	return cfg.Drop.ApiKey
}

func DropChain() string {
	return cfg.Drop.Chain
}

func DropModuleAddress() string {
	return cfg.Drop.ModuleAddress
}

func DropConfirmInterval() time.Duration {
	if cfg.Drop.ConfirmInterval <= 0 {
		return 2 * time.Second
	}
	return cfg.Drop.ConfirmInterval
}

// DropConfirmTimeout bounds how long a queued claim is watched, independent of
// the request that submitted it.
func DropConfirmTimeout() time.Duration {
	if cfg.Drop.ConfirmTimeout <= 0 {
		return 10 * time.Minute
	}
	return cfg.Drop.ConfirmTimeout
}

// SessionSecret is the HMAC key for session cookies. An empty secret means
// sessions do not survive a restart.
func SessionSecret() string {
	return cfg.Session.Secret
}

func SessionStore() string {
	allowed := []string{"memory", "redis"}
	store := strings.ToLower(cfg.Session.Store)
	if slices.Contains(allowed, store) {
		return store
	}
	return "memory"
}

func HighlightDuration() time.Duration {
	if cfg.Session.HighlightDuration <= 0 {
		return 3500 * time.Millisecond
	}
	return cfg.Session.HighlightDuration
}

func RedisAddr() string {
	return cfg.Redis.Addr
}

func RedisPassword() string {
	return cfg.Redis.Password
}

func RedisDB() int {
	return cfg.Redis.DB
}

func CacheStorage() string {
	return cfg.Cache.StoragePath
}

func CacheTTL() time.Duration {
	if cfg.Cache.TTL <= 0 {
		return 12 * time.Hour
	}
	return cfg.Cache.TTL
}
