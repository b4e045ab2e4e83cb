package security

import (
	"strings"
	"testing"
)

func TestGenerateSessionToken(t *testing.T) {
	token := GenerateSessionToken()

	// Two UUIDs with hyphens stripped: 64 hex characters.
	if len(token) != 64 {
		t.Fatalf("expected 64-character token, got %d", len(token))
	}
	if strings.Contains(token, "-") {
		t.Fatalf("expected hyphens stripped from token")
	}

	if other := GenerateSessionToken(); other == token {
		t.Fatalf("expected consecutive tokens to differ")
	}
}

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	if _, err := GenerateSecureToken(0); err == nil {
		t.Fatalf("expected error for non-positive length")
	}
}

func TestHashTokenIsDeterministic(t *testing.T) {
	first := HashToken("reset-token")
	second := HashToken("reset-token")

	if first != second {
		t.Fatalf("expected identical hashes for identical input")
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(first))
	}
	if first == HashToken("other-token") {
		t.Fatalf("expected distinct inputs to hash differently")
	}
}
