package i18n

import "testing"

func TestTranslateDefaultLocale(t *testing.T) {
	translator, err := NewTranslator("en")
	if err != nil {
		t.Fatalf("NewTranslator returned error: %v", err)
	}

	got := translator.Translate("auth.invalidCredentials", nil)
	if got != "invalid email or password" {
		t.Fatalf("unexpected translation: %s", got)
	}
}

func TestTranslateRequestedLocale(t *testing.T) {
	translator, err := NewTranslator("en")
	if err != nil {
		t.Fatalf("NewTranslator returned error: %v", err)
	}

	got := translator.Translate("auth.invalidCredentials", nil, "de")
	if got != "E-Mail oder Passwort ungültig" {
		t.Fatalf("unexpected translation: %s", got)
	}
}

func TestTranslateFallsBackToDefault(t *testing.T) {
	translator, err := NewTranslator("en")
	if err != nil {
		t.Fatalf("NewTranslator returned error: %v", err)
	}

	// Unsupported locale falls back to the default bundle language.
	got := translator.Translate("contact.received", nil, "fr")
	if got != "thanks for reaching out, we will get back to you soon" {
		t.Fatalf("unexpected translation: %s", got)
	}
}

func TestTranslateUnknownKeyReturnsKey(t *testing.T) {
	translator, err := NewTranslator("en")
	if err != nil {
		t.Fatalf("NewTranslator returned error: %v", err)
	}

	if got := translator.Translate("does.not.exist", nil); got != "does.not.exist" {
		t.Fatalf("expected key fallback, got %s", got)
	}
}

func TestTranslateWithTemplateData(t *testing.T) {
	translator, err := NewTranslator("en")
	if err != nil {
		t.Fatalf("NewTranslator returned error: %v", err)
	}

	got := translator.Translate("errors.tooManyRequests", map[string]any{"RetryAfter": 30})
	if got != "too many requests, please try again in 30 seconds" {
		t.Fatalf("unexpected translation: %s", got)
	}
}
