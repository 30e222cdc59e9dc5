package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadFileWithDefaults reads a YAML config file, fills defaults, then applies
// environment overrides declared through `env:"NAME"` struct tags, so an
// exported variable always beats both the file and the defaults.
//
// Before overrides are read, .env files are loaded into the process
// environment: ENV_FILE when set names the only file considered, otherwise
// .env.local then .env. Missing files are not an error.
func LoadFileWithDefaults[T any](path string, setDefaults func(*T)) (*T, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg := new(T)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if setDefaults != nil {
		setDefaults(cfg)
	}
	overrideFromEnv(reflect.ValueOf(cfg).Elem())
	return cfg, nil
}

// GetConfigPath returns the config path from the CONFIG_PATH environment
// variable, falling back to defaultPath.
func GetConfigPath(defaultPath string) string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return defaultPath
}

func loadDotEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// overrideFromEnv walks the exported fields of a struct value, descending
// into nested structs, and overwrites every field whose env tag names a
// non-empty environment variable.
func overrideFromEnv(v reflect.Value) {
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			overrideFromEnv(field)
			continue
		}

		name := t.Field(i).Tag.Get("env")
		if name == "" {
			continue
		}
		if val := os.Getenv(name); val != "" {
			setFromEnv(field, val)
		}
	}
}

// setFromEnv converts val to the field's type. A value that does not parse
// leaves the field untouched rather than failing the whole load.
func setFromEnv(field reflect.Value, val string) {
	if field.Type() == reflect.TypeOf(time.Duration(0)) {
		if d, err := time.ParseDuration(val); err == nil {
			field.SetInt(int64(d))
		}
		return
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(val)
	case reflect.Bool:
		v := strings.ToLower(strings.TrimSpace(val))
		field.SetBool(v == "true" || v == "1" || v == "yes")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			field.SetInt(i)
		}
	case reflect.Float32, reflect.Float64:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			field.SetFloat(f)
		}
	}
}
