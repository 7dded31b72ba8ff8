package main

import (
	"github.com/kbukum/voicedoc/audio"
	"github.com/kbukum/voicedoc/config"
	"github.com/kbukum/voicedoc/delivery"
	"github.com/kbukum/voicedoc/encryption"
	"github.com/kbukum/voicedoc/identity"
	"github.com/kbukum/voicedoc/kvstore"
	"github.com/kbukum/voicedoc/observability"
	"github.com/kbukum/voicedoc/server"
	"github.com/kbukum/voicedoc/transcription"
)

const serviceName = "voicedoc"

// AppConfig is the full configuration of the voicedoc binary.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Store         kvstore.Config       `yaml:"store" mapstructure:"store"`
	Encryption    encryption.Config    `yaml:"encryption" mapstructure:"encryption"`
	Identity      identity.Config      `yaml:"identity" mapstructure:"identity"`
	Transcription transcription.Config `yaml:"transcription" mapstructure:"transcription"`
	Delivery      delivery.Config      `yaml:"delivery" mapstructure:"delivery"`
	Audio         audio.Config         `yaml:"audio" mapstructure:"audio"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Store.ApplyDefaults()
	c.Encryption.ApplyDefaults()
	c.Identity.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Delivery.ApplyDefaults()
	c.Audio.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

func (c *AppConfig) Validate() error {
	for _, check := range []func() error{
		c.ServiceConfig.Validate,
		c.Server.Validate,
		c.Store.Validate,
		c.Encryption.Validate,
		c.Identity.Validate,
		c.Transcription.Validate,
		c.Delivery.Validate,
		c.Audio.Validate,
		c.Observability.Validate,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func loadConfig(configFile, envFile string) (*AppConfig, error) {
	cfg := &AppConfig{}
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
