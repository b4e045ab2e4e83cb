package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Translator resolves message keys for a requested language, falling back
// to the default locale when a translation is missing.
type Translator struct {
	bundle        *goi18n.Bundle
	defaultLocale string
}

// NewTranslator loads the embedded translation files into a bundle rooted
// at the supplied default locale.
func NewTranslator(defaultLocale string) (*Translator, error) {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
	}

	bundle := goi18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read embedded locales: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+entry.Name()); err != nil {
			return nil, fmt.Errorf("load locale file %s: %w", entry.Name(), err)
		}
	}

	return &Translator{bundle: bundle, defaultLocale: defaultLocale}, nil
}

// DefaultLocale returns the fallback locale name.
func (t *Translator) DefaultLocale() string {
	return t.defaultLocale
}

// Translate resolves the message key for the requested locales, in
// preference order. An unknown key falls back to the key itself so a
// missing translation never breaks a response.
func (t *Translator) Translate(key string, data map[string]any, locales ...string) string {
	langs := append([]string{}, locales...)
	langs = append(langs, t.defaultLocale)

	localizer := goi18n.NewLocalizer(t.bundle, langs...)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		return key
	}
	return msg
}
