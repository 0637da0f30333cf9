package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		Catalog
		UI
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
	Catalog struct {
		DefaultPerPage int
		MaxPerPage     int
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8180)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")
	v.SetDefault("auth_session_secret", "")
	v.SetDefault("auth_session_lifetime", "168h")
	v.SetDefault("auth_bcrypt_cost", DefaultBcryptCost)
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("catalog_default_per_page", DefaultPerPage)
	v.SetDefault("catalog_max_per_page", MaxPerPage)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("port"),
			Host: v.GetString("host"),
		},
		Database: Database{
			Path: v.GetString("database_path"),
		},
		Auth: Auth{
			SessionSecret:   v.GetString("auth_session_secret"),
			SessionLifetime: v.GetDuration("auth_session_lifetime"),
			BcryptCost:      v.GetInt("auth_bcrypt_cost"),
			SecureCookies:   v.GetBool("auth_secure_cookies"),
		},
		Catalog: Catalog{
			DefaultPerPage: v.GetInt("catalog_default_per_page"),
			MaxPerPage:     v.GetInt("catalog_max_per_page"),
		},
		UI: UI{
			TemplatesPath: v.GetString("templates_path"),
			StaticPath:    v.GetString("static_path"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("shutdown_timeout_in_seconds"),
		},
	}
}
