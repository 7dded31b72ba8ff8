// Package config loads service configuration from config.yml, .env files and
// environment variables using Viper.
//
//	var cfg AppConfig
//	if err := config.LoadConfig("voicedoc", &cfg); err != nil { ... }
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil { ... }
package config
