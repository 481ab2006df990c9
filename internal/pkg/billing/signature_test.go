package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
)

func TestVerifyHMACSHA256(t *testing.T) {
	payload := []byte(`{"foo":"bar"}`)
	secret := "top-secret"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	validSig := hex.EncodeToString(mac.Sum(nil))

	if !verifyHMACSHA256(payload, validSig, secret) {
		t.Fatalf("expected signature to validate")
	}
	if !verifyHMACSHA256(payload, strings.ToUpper(validSig), secret) {
		t.Fatalf("expected case-insensitive hex signature to validate")
	}
	if verifyHMACSHA256(payload, "deadbeef", secret) {
		t.Fatalf("expected invalid signature to fail")
	}
	if verifyHMACSHA256(payload, validSig, "other-secret") {
		t.Fatalf("expected wrong secret to fail")
	}
	if verifyHMACSHA256(payload, "", secret) {
		t.Fatalf("expected empty signature to fail")
	}
	if verifyHMACSHA256(payload, validSig, "") {
		t.Fatalf("expected empty secret to fail")
	}
}

func TestConstantTimeEquals(t *testing.T) {
	if !constantTimeEquals("token-a", "token-a") {
		t.Fatalf("expected equal tokens to match")
	}
	if constantTimeEquals("token-a", "token-b") {
		t.Fatalf("expected different tokens to fail")
	}
	if constantTimeEquals("", "token-a") {
		t.Fatalf("expected empty candidate to fail")
	}
	if constantTimeEquals("token-a", "") {
		t.Fatalf("expected empty expectation to fail")
	}
}

func TestExtractSignatureComponent(t *testing.T) {
	tests := []struct {
		header string
		key    string
		want   string
	}{
		{header: "ts=1712345678,v1=abc123", key: "v1", want: "abc123"},
		{header: "ts=1712345678,v1=abc123", key: "ts", want: "1712345678"},
		{header: "ts=1712345678, v1 = abc123", key: "v1", want: "abc123"},
		{header: "ts=1712345678", key: "v1", want: ""},
		{header: "", key: "v1", want: ""},
	}

	for _, tt := range tests {
		if got := extractSignatureComponent(tt.header, tt.key); got != tt.want {
			t.Fatalf("extractSignatureComponent(%q, %q) = %q, want %q", tt.header, tt.key, got, tt.want)
		}
	}
}

func TestParseCorrelationID(t *testing.T) {
	tests := []struct {
		in   string
		want uint
	}{
		{in: "42", want: 42},
		{in: " 42 ", want: 42},
		{in: "", want: 0},
		{in: "abc", want: 0},
		{in: "-5", want: 0},
	}

	for _, tt := range tests {
		if got := parseCorrelationID(tt.in); got != tt.want {
			t.Fatalf("parseCorrelationID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDedupEventID(t *testing.T) {
	event := &NormalizedEvent{EventID: "evt_1"}
	if got := dedupEventID(event, []byte("body")); got != "evt_1" {
		t.Fatalf("expected provider event id, got %q", got)
	}

	event.EventID = ""
	got := dedupEventID(event, []byte("body"))
	if !strings.HasPrefix(got, "hash:") {
		t.Fatalf("expected payload hash fallback, got %q", got)
	}
	if again := dedupEventID(event, []byte("body")); again != got {
		t.Fatalf("expected stable hash for identical payloads")
	}
	if other := dedupEventID(event, []byte("other")); other == got {
		t.Fatalf("expected different payloads to hash differently")
	}
}
