package console

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/server"
	"github.com/kbukum/voicedoc/settings"
)

// configView is the Configuration as shown to clients, key masked.
type configView struct {
	TranscriptionAPIKey string `json:"transcriptionApiKey"`
	DeliveryWebhookURL  string `json:"deliveryWebhookUrl"`
}

func viewOf(cfg settings.Configuration) configView {
	return configView{TranscriptionAPIKey: cfg.MaskedKey(), DeliveryWebhookURL: cfg.DeliveryWebhookURL}
}

// GetConfig returns the saved configuration.
func (h *Handler) GetConfig(c *gin.Context) {
	cfg, ok := h.settings.Current()
	if !ok {
		server.RespondWithError(c, errors.NotFound("configuration", ""))
		return
	}
	server.RespondOK(c, viewOf(cfg))
}

// PutConfig validates and saves a configuration. The running cycle keeps
// the configuration it started with.
func (h *Handler) PutConfig(c *gin.Context) {
	var cfg settings.Configuration
	if !bind(c, &cfg) {
		return
	}
	if err := h.settings.Save(c.Request.Context(), cfg); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, viewOf(cfg))
}

// DeleteConfig clears the saved configuration.
func (h *Handler) DeleteConfig(c *gin.Context) {
	if err := h.settings.Clear(c.Request.Context()); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}
