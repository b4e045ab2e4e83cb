package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/velostra/platform-api/internal/infra/i18n"
	"github.com/velostra/platform-api/internal/transport/http/middleware"
)

// localize resolves a message key for the request's negotiated locale.
// Without a translator the key itself is returned so handlers degrade
// to stable machine-readable strings.
func localize(c *gin.Context, translator *i18n.Translator, key string, data map[string]any) string {
	if translator == nil {
		return key
	}
	return translator.Translate(key, data, middleware.GetLocale(c))
}
