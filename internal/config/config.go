// Package config provides service configuration and the hot-reloadable
// classification snapshot for the mail-triage service.
//
// Two layers live here. The service Config is loaded once at startup from
// YAML with environment overrides and never changes while the process runs.
// The Snapshot holds everything the classification engine decides with
// (patterns, bands, provider routing, escalation rules) and can be replaced
// at runtime through the Store without restarting.
package config

import "time"

// Default configuration values.
const (
	defaultServiceName        = "mail-triage"
	defaultServiceVersion     = "1.0.0"
	defaultServicePort        = 8075
	defaultConcurrency        = 10
	defaultMaxBatchSize       = 50
	defaultShutdownTimeoutSec = 30
	defaultDBDriver           = "postgres"
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBUser             = "postgres"
	defaultDBName             = "mail_triage"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMaxIdleConns     = 5
	defaultSQLitePath         = "mail_triage.db"
	defaultSentimentURL       = "http://sentiment-ml:8081"
	defaultEmotionURL         = "http://emotion-ml:8082"
	defaultTopicURL           = "http://topic-ml:8083"
	defaultProviderTimeoutSec = 5
	defaultLogLevel           = "info"
	defaultLogFormat          = "json"
	defaultRateLimitPerSec    = 50
	defaultRateLimitBurst     = 100
)

// Config holds all configuration for the mail-triage service.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Engine    EngineConfig    `yaml:"engine"`
	Database  DatabaseConfig  `yaml:"database"`
	Providers ProvidersConfig `yaml:"providers"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `env:"TRIAGE_PORT"        yaml:"port"`
	Debug           bool          `env:"APP_DEBUG"          yaml:"debug"`
	Concurrency     int           `env:"TRIAGE_CONCURRENCY" yaml:"concurrency"`
	MaxBatchSize    int           `yaml:"max_batch_size"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// EngineConfig holds classification engine configuration.
type EngineConfig struct {
	// SnapshotPath points at the YAML snapshot document. Empty means the
	// built-in default snapshot is used and reloads re-validate it as a no-op.
	SnapshotPath string `env:"TRIAGE_SNAPSHOT_PATH" yaml:"snapshot_path"`
}

// DatabaseConfig holds classification history database configuration.
type DatabaseConfig struct {
	Enabled         bool          `env:"TRIAGE_HISTORY_ENABLED" yaml:"enabled"`
	Driver          string        `env:"TRIAGE_DB_DRIVER"       yaml:"driver"` // "postgres" or "sqlite"
	Host            string        `env:"POSTGRES_HOST"          yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"          yaml:"port"`
	User            string        `env:"POSTGRES_USER"          yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD"      yaml:"password"`
	Database        string        `env:"POSTGRES_DB"            yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"       yaml:"sslmode"`
	Path            string        `env:"TRIAGE_SQLITE_PATH"     yaml:"path"` // sqlite file path
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// ProvidersConfig holds signal provider endpoint configuration.
// Transport-level settings live here; decision-level settings (enabled,
// score gates, routing) live in the Snapshot so they can be hot-reloaded.
type ProvidersConfig struct {
	Sentiment ProviderEndpoint `yaml:"sentiment"`
	Emotion   ProviderEndpoint `yaml:"emotion"`
	Topic     ProviderEndpoint `yaml:"topic"`
}

// ProviderEndpoint holds the endpoint settings for one signal provider.
// Whether a provider is consulted at all is a Snapshot decision.
type ProviderEndpoint struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// RateLimitConfig holds API rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled"`
	PerSec  int  `yaml:"per_sec"`
	Burst   int  `yaml:"burst"`
}

// Load loads service configuration from the specified path.
func Load(path string) (*Config, error) {
	return LoadFileWithDefaults[Config](path, setDefaults)
}

// Default returns a Config with every default applied, as if loaded from
// an empty file.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setProviderDefaults(&cfg.Providers)
	setLoggingDefaults(&cfg.Logging)
	setRateLimitDefaults(&cfg.RateLimit)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.Concurrency == 0 {
		s.Concurrency = defaultConcurrency
	}
	if s.MaxBatchSize == 0 {
		s.MaxBatchSize = defaultMaxBatchSize
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = defaultShutdownTimeoutSec * time.Second
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Driver == "" {
		d.Driver = defaultDBDriver
	}
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
	if d.Path == "" {
		d.Path = defaultSQLitePath
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
}

func setProviderDefaults(p *ProvidersConfig) {
	if p.Sentiment.URL == "" {
		p.Sentiment.URL = defaultSentimentURL
	}
	if p.Emotion.URL == "" {
		p.Emotion.URL = defaultEmotionURL
	}
	if p.Topic.URL == "" {
		p.Topic.URL = defaultTopicURL
	}
	for _, ep := range []*ProviderEndpoint{&p.Sentiment, &p.Emotion, &p.Topic} {
		if ep.Timeout == 0 {
			ep.Timeout = defaultProviderTimeoutSec * time.Second
		}
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

func setRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSec == 0 {
		r.PerSec = defaultRateLimitPerSec
	}
	if r.Burst == 0 {
		r.Burst = defaultRateLimitBurst
	}
}
