package security

import (
	"strings"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	p := NewJWTProvider("test-secret")

	token, expiresAt, err := p.Generate("u1", "student", 15*time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("expected a future expiry")
	}

	claims, err := p.Parse(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Sub != "u1" || claims.Role != "student" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTParse_RejectsTamperedPayload(t *testing.T) {
	p := NewJWTProvider("test-secret")
	token, _, err := p.Generate("u1", "student", 15*time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	parts := strings.Split(token, ".")
	other, _, err := p.Generate("u2", "recruiter", 15*time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	tampered := parts[0] + "." + strings.Split(other, ".")[1] + "." + parts[2]
	if _, err := p.Parse(tampered); err == nil {
		t.Fatal("expected a signature error for a swapped payload")
	}
}

func TestJWTParse_RejectsWrongSecret(t *testing.T) {
	token, _, err := NewJWTProvider("secret-a").Generate("u1", "student", 15*time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := NewJWTProvider("secret-b").Parse(token); err == nil {
		t.Fatal("expected a signature error under a different secret")
	}
}

func TestJWTParse_RejectsExpired(t *testing.T) {
	p := NewJWTProvider("test-secret")
	token, _, err := p.Generate("u1", "student", -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := p.Parse(token); err == nil {
		t.Fatal("expected an expiry error")
	}
}

func TestJWTParse_RejectsGarbage(t *testing.T) {
	p := NewJWTProvider("test-secret")
	for _, token := range []string{"", "a.b", "not a token at all"} {
		if _, err := p.Parse(token); err == nil {
			t.Fatalf("expected an error for %q", token)
		}
	}
}
