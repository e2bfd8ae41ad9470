package catalog

import (
	"fmt"
	"strings"

	"optimagrowth-licensing/pkg/config"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("catalog", fx.Provide(New))

// Catalog resolves message ids to human-readable text. It only ever produces
// display strings; callers must not branch on its output.
type Catalog struct {
	messages map[string]string
}

// New loads the message bundle for the configured locale, e.g.
// locales/messages.en.yaml. A missing bundle is not fatal: lookups then fall
// back to the message id itself.
func New(cfg *config.Config) *Catalog {
	c := &Catalog{messages: make(map[string]string)}

	bundle := viper.New()
	bundle.SetConfigFile(fmt.Sprintf("%s/messages.%s.yaml", cfg.Catalog.Path, cfg.Catalog.Locale))

	if err := bundle.ReadInConfig(); err != nil {
		zap.L().Warn("message bundle not loaded, falling back to message ids",
			zap.String("path", cfg.Catalog.Path),
			zap.String("locale", cfg.Catalog.Locale),
			zap.Error(err),
		)
		return c
	}

	for _, key := range bundle.AllKeys() {
		c.messages[key] = bundle.GetString(key)
	}

	return c
}

// FromMessages builds a catalog from an in-memory map. Test constructor.
func FromMessages(messages map[string]string) *Catalog {
	normalized := make(map[string]string, len(messages))
	for k, v := range messages {
		normalized[strings.ToLower(k)] = v
	}
	return &Catalog{messages: normalized}
}

// Lookup resolves the message id and interpolates positional arguments.
// Unknown ids resolve to the id itself so a missing translation never hides
// the failure it was describing.
func (c *Catalog) Lookup(id string, args ...any) string {
	msg, ok := c.messages[strings.ToLower(id)]
	if !ok {
		return id
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
