package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported record store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080" required:"true"`

	// Store holds the record store configuration.
	Store StoreConfig `mapstructure:",squash"`

	// Geocoder holds the place search configuration.
	Geocoder GeocoderConfig `mapstructure:",squash"`

	// Proxy holds the optional outbound proxy for the geocoder.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// StoreConfig selects and tunes the record store.
type StoreConfig struct {
	// Driver is one of sqlite, postgres or redis.
	Driver string `mapstructure:"STORE_DRIVER" default:"sqlite"`
	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `mapstructure:"SQLITE_PATH" default:"tracking.db"`
	// DatabaseURL is the Postgres DSN used by the postgres driver.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// RedisURL is used by the redis driver: redis://[:password@]host[:port][/database]
	RedisURL string `mapstructure:"REDIS_URL"`
	// RetryAttempts caps attempts for calls that hit a connectivity failure.
	RetryAttempts int `mapstructure:"STORE_RETRY_ATTEMPTS" default:"3"`
	// RetryDelay is the fixed wait between attempts.
	RetryDelay time.Duration `mapstructure:"STORE_RETRY_DELAY" default:"1s"`
	// Timeout bounds every store call.
	Timeout time.Duration `mapstructure:"STORE_TIMEOUT" default:"10s"`
}

// GeocoderConfig configures the external place search.
type GeocoderConfig struct {
	// Enabled turns external lookups on; when off only synthetic coordinates are used.
	Enabled bool `mapstructure:"GEOCODER_ENABLED" default:"true"`
	// URL is the base URL of a Nominatim-compatible search API.
	URL string `mapstructure:"GEOCODER_URL" default:"https://nominatim.openstreetmap.org"`
	// Qualifier is appended to the first lookup of every location.
	Qualifier string `mapstructure:"GEOCODER_QUALIFIER" default:"USA"`
	// Timeout bounds each lookup.
	Timeout time.Duration `mapstructure:"GEOCODER_TIMEOUT" default:"5s"`
	// UserAgent identifies the application to the geocoding service.
	UserAgent string `mapstructure:"GEOCODER_USER_AGENT" default:"trackingstuff/1.0"`
	// RateLimit is the maximum number of lookups per second.
	RateLimit float64 `mapstructure:"GEOCODER_RATE_LIMIT" default:"1"`
}

// ProxyConfig holds outbound proxy details.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED" default:"false"`
	Hostname string `mapstructure:"PROXY_HOSTNAME"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if err := validateStore(&config.Store); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields, binds env keys and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// validateStore checks the settings the selected driver depends on.
func validateStore(store *StoreConfig) error {
	store.Driver = strings.ToLower(strings.TrimSpace(store.Driver))

	switch store.Driver {
	case DriverSQLite:
		if store.SQLitePath == "" {
			return fmt.Errorf("missing required configuration: SQLITE_PATH")
		}
	case DriverPostgres:
		if store.DatabaseURL == "" {
			return fmt.Errorf("missing required configuration: DATABASE_URL")
		}
	case DriverRedis:
		if store.RedisURL == "" {
			return fmt.Errorf("missing required configuration: REDIS_URL")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", store.Driver)
	}

	if store.RetryAttempts < 1 {
		return fmt.Errorf("STORE_RETRY_ATTEMPTS must be at least 1, got %d", store.RetryAttempts)
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
