package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "WNW"

// Load builds the configuration from defaults, an optional YAML file, a .env
// file and WNW_* environment variables, in increasing order of precedence.
// A missing config.yaml is not an error unless configPath names it explicitly.
func Load(configPath string) (*Config, error) {
	// .env only seeds the process environment; absence is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	cfg := NewDefaultConfig()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	SetDefaultsFromStructRecursive(reflect.ValueOf(cfg), "", v)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the clients cannot work with.
func (c *Config) Validate() error {
	if c.Geocoding.Count <= 0 {
		return fmt.Errorf("geocoding.count must be positive, got %d", c.Geocoding.Count)
	}
	if c.Geocoding.MinQueryLength < 0 {
		return fmt.Errorf("geocoding.min_query_length must not be negative")
	}
	if c.Forecast.HourlyPoints <= 0 {
		return fmt.Errorf("forecast.hourly_points must be positive, got %d", c.Forecast.HourlyPoints)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce must not be negative")
	}
	switch c.Location.Provider {
	case "ip-api", "static", "none":
	default:
		return fmt.Errorf("location.provider %q is not one of ip-api, static, none", c.Location.Provider)
	}
	return nil
}

func SetDefaultsFromStructRecursive(v reflect.Value, prefix string, viper *viper.Viper) {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	durationType := reflect.TypeOf(time.Duration(0))

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		// Skip unexported fields
		if !fieldValue.CanInterface() {
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			key = strings.ToLower(field.Name)
		}

		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch {
		case fieldValue.Kind() == reflect.Struct:
			SetDefaultsFromStructRecursive(fieldValue, fullKey, viper)
		case fieldValue.Type() == durationType:
			// Env overrides arrive as strings like "500ms".
			viper.SetDefault(fullKey, fieldValue.Interface().(time.Duration).String())
		default:
			viper.SetDefault(fullKey, fieldValue.Interface())
		}
	}
}
