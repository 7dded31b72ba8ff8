package bootstrap

import (
	"github.com/kbukum/voicedoc/config"
)

// Config is the constraint for application configuration types. Any struct
// embedding config.ServiceConfig gets GetServiceConfig by promotion and
// defines its own ApplyDefaults and Validate over every section.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
