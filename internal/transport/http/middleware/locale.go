package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// LocaleKey is the gin context key holding the negotiated locale.
const LocaleKey = "locale"

const fallbackLocale = "en"

// Locale negotiates the response language. An explicit ?lang= query
// parameter wins over the Accept-Language header; anything unresolvable
// falls back to the default locale.
func Locale(defaultLocale string) gin.HandlerFunc {
	if defaultLocale == "" {
		defaultLocale = fallbackLocale
	}
	return func(c *gin.Context) {
		locale := strings.TrimSpace(c.Query("lang"))
		if locale == "" {
			locale = preferredLanguage(c.GetHeader("Accept-Language"))
		}
		if locale == "" {
			locale = defaultLocale
		}

		c.Set(LocaleKey, locale)
		c.Next()
	}
}

// GetLocale retrieves the negotiated locale from context.
func GetLocale(c *gin.Context) string {
	if value, exists := c.Get(LocaleKey); exists {
		if locale, ok := value.(string); ok && locale != "" {
			return locale
		}
	}
	return fallbackLocale
}

// preferredLanguage extracts the first language tag from an
// Accept-Language header, ignoring quality weights.
func preferredLanguage(header string) string {
	if header == "" {
		return ""
	}

	first := header
	if idx := strings.IndexByte(first, ','); idx >= 0 {
		first = first[:idx]
	}
	if idx := strings.IndexByte(first, ';'); idx >= 0 {
		first = first[:idx]
	}

	return strings.TrimSpace(first)
}
