package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Catalog
		Auth
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Catalog struct {
		BaseURL      string
		PageSize     int    // fixed search page size
		DefaultQuery string // query the search screen preloads with
	}
	Auth struct {
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // set to false for local dev without HTTPS
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8288)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("catalog_base_url", DefaultCatalogBaseURL)
	v.SetDefault("catalog_page_size", 15)
	v.SetDefault("catalog_default_query", "comics")
	v.SetDefault("session_lifetime", "168h")
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("secure_cookies", true)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("port"),
			Host: v.GetString("host"),
		},
		Database: Database{
			Path: v.GetString("database_path"),
		},
		Catalog: Catalog{
			BaseURL:      v.GetString("catalog_base_url"),
			PageSize:     v.GetInt("catalog_page_size"),
			DefaultQuery: v.GetString("catalog_default_query"),
		},
		Auth: Auth{
			SessionLifetime: v.GetDuration("session_lifetime"),
			BcryptCost:      v.GetInt("bcrypt_cost"),
			SecureCookies:   v.GetBool("secure_cookies"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("shutdown_timeout_in_seconds"),
		},
	}
}
