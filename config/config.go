package config

import (
	"strings"

	"github.com/gantapp/gant/internal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// We're bootstrapping so avoid any imports from other packages
var log = logrus.New()

var defaults = map[string]interface{}{
	"server.host":                   "0.0.0.0",
	"server.port":                   8000,
	"store.type":                    "postgres",
	"shab.base_url":                 "https://amtsblattportal.ch/api/v1",
	"shab.timeout_seconds":          60,
	"shab.max_retries":              3,
	"ingest.every_hours":            24,
	"ingest.days_back":              7,
	"ingest.concurrency":            4,
	"ingest.pause_millis":           500,
	"retention.purge_every_minutes": 0,
	"retention.max_age_days":        365,
	"pricing.basic_chf":             "4.90",
	"pricing.premium_chf":           "9.90",
	"log.level":                     "info",
}

// LoadConfig loads the config file and ENV variables into a Config struct
func LoadConfig(configFile string) (*Config, error) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetConfigType("yaml")

	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	viper.SetEnvPrefix("GANT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine, we fall back to defaults and ENV.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables take precedence over config file
	loadDotEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Debug(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level based on the config file. Defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogLevel(level)
	log.Info("Log level set to: ", level)
}
