package security

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Str0ngPassword")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if !strings.HasPrefix(hash, "argon2id$") {
		t.Fatalf("expected argon2id prefix, got %s", hash)
	}

	ok, err := VerifyPassword("Str0ngPassword", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected password to verify against its own hash")
	}

	ok, err = VerifyPassword("WrongPassword1", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatched password to fail verification")
	}
}

func TestHashPasswordSaltsAreUnique(t *testing.T) {
	first, err := HashPassword("Str0ngPassword")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := HashPassword("Str0ngPassword")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct hashes for the same password")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("whatever", "not-a-valid-hash"); err == nil {
		t.Fatalf("expected error for malformed encoded hash")
	}
}

func TestVerifyPasswordEmptyInputs(t *testing.T) {
	ok, err := VerifyPassword("", "argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA")
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected empty password to fail verification")
	}
}

func TestConfigureArgon2RejectsWeakParams(t *testing.T) {
	original := CurrentArgon2Config()
	t.Cleanup(func() {
		if err := ConfigureArgon2(original); err != nil {
			t.Fatalf("restore argon2 config: %v", err)
		}
	})

	weak := original
	weak.Memory = 1024
	if err := ConfigureArgon2(weak); err == nil {
		t.Fatalf("expected error for insufficient memory parameter")
	}

	tuned := original
	tuned.Iterations = 4
	if err := ConfigureArgon2(tuned); err != nil {
		t.Fatalf("expected tuned config to be accepted, got %v", err)
	}
	if CurrentArgon2Config().Iterations != 4 {
		t.Fatalf("expected active config to reflect tuned iterations")
	}
}
