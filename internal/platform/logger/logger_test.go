package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"api_key", "tvly-123",
		"user_id", "google:42",
		"keyword", "education",
	})
	if len(out) != 6 {
		t.Fatalf("len=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("api_key not redacted: %v", out[1])
	}
	if s, _ := out[3].(string); !strings.HasPrefix(s, "hash:") {
		t.Fatalf("user_id not hashed: %v", out[3])
	}
	if out[5] != "education" {
		t.Fatalf("keyword changed: %v", out[5])
	}
}

func TestSanitizeKVsRedactsJWTLookingValues(t *testing.T) {
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ1c2VyLTEifQ.signature"
	out := sanitizeKVs([]interface{}{"header", jwt})
	if out[1] != "[REDACTED]" {
		t.Fatalf("expected jwt to be redacted, got %v", out[1])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"keyword", "x", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected: %v", out)
	}
}

func TestSanitizeKVsCredentialAndSessionKeys(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"password", "hunter2",
		"refresh_token_hint", "r-1",
		"db_password", "pg",
		"session_id", "sess-9",
	})
	for _, i := range []int{1, 3, 5} {
		if out[i] != "[REDACTED]" {
			t.Fatalf("%v not redacted: %v", out[i-1], out[i])
		}
	}
	if s, _ := out[7].(string); !strings.HasPrefix(s, "hash:") {
		t.Fatalf("session_id not hashed: %v", out[7])
	}
}

func TestSanitizeKVsWalksSlices(t *testing.T) {
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ1c2VyLTEifQ.signature"
	out := sanitizeKVs([]interface{}{"items", []interface{}{"plain", jwt}})
	items, ok := out[1].([]interface{})
	if !ok || len(items) != 2 {
		t.Fatalf("unexpected: %v", out[1])
	}
	if items[0] != "plain" || items[1] != "[REDACTED]" {
		t.Fatalf("slice not sanitized: %v", items)
	}
}
