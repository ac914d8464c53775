package config

// Config holds the configuration of the application.
// Use config.LoadConfig to create a new instance.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	SHAB      SHABConfig      `mapstructure:"shab"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Retention RetentionConfig `mapstructure:"retention"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type StoreConfig struct {
	Type     string         `mapstructure:"type"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// SHABConfig describes the upstream gazette API.
type SHABConfig struct {
	// BaseURL is the root of the publication API, e.g.
	// https://amtsblattportal.ch/api/v1
	BaseURL string `mapstructure:"base_url"`
	// TimeoutSeconds applies to each fetch, including retries.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// MaxRetries is handed to the retryable HTTP client.
	MaxRetries int `mapstructure:"max_retries"`
}

// IngestConfig drives the periodic fetch cycle.
type IngestConfig struct {
	// EveryHours is the interval between fetch cycles. 0 disables the
	// scheduler.
	EveryHours int `mapstructure:"every_hours"`
	// DaysBack is the width of the date window requested from the gazette.
	DaysBack int `mapstructure:"days_back"`
	// Concurrency bounds the per-cycle document fan-out.
	Concurrency int `mapstructure:"concurrency"`
	// PauseMillis is the pause between document batches, rate limiting the
	// upstream source.
	PauseMillis int `mapstructure:"pause_millis"`
}

type RetentionConfig struct {
	// PurgeEveryMinutes is the interval between purge runs. 0 disables purging.
	PurgeEveryMinutes int `mapstructure:"purge_every_minutes"`
	// MaxAgeDays is the age past the auction date after which rows are purged.
	MaxAgeDays int `mapstructure:"max_age_days"`
}

// PricingConfig is the subscription price table in CHF.
type PricingConfig struct {
	BasicCHF   string `mapstructure:"basic_chf"`
	PremiumCHF string `mapstructure:"premium_chf"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}
