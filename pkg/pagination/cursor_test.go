package pagination

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestEncodeDecodeCursor_RoundTrip(t *testing.T) {
	c := Cursor{
		V:   1,
		P:   "/data/out/result_251103.xlsx",
		Off: 400,
		Ps:  400,
		Iat: 1767225600,
	}
	tok, err := EncodeCursor(c)
	if err != nil {
		t.Fatalf("EncodeCursor error: %v", err)
	}
	// token should be url-safe base64 (no '+', '/', '=')
	if strings.ContainsAny(tok, "+/=") {
		t.Fatalf("token contains non-url-safe chars: %q", tok)
	}
	out, err := DecodeCursor(tok)
	if err != nil {
		t.Fatalf("DecodeCursor error: %v", err)
	}
	if out.P != c.P || out.Off != c.Off || out.Ps != c.Ps || out.Iat != c.Iat {
		t.Fatalf("roundtrip mismatch: got %+v want %+v", out, c)
	}
}

func TestEncodeCursor_DefaultsVersionAndIssuedAt(t *testing.T) {
	tok, err := EncodeCursor(Cursor{P: "r.xlsx", Off: 0, Ps: 100})
	if err != nil {
		t.Fatalf("EncodeCursor error: %v", err)
	}
	out, err := DecodeCursor(tok)
	if err != nil {
		t.Fatalf("DecodeCursor error: %v", err)
	}
	if out.V != 1 {
		t.Fatalf("version = %d, want 1", out.V)
	}
	if out.Iat == 0 {
		t.Fatalf("expected issued-at to be defaulted")
	}
}

func TestDecodeCursor_Invalid(t *testing.T) {
	cases := []string{
		"",    // empty
		"!!!", // not base64
		base64.RawURLEncoding.EncodeToString([]byte("not-json")),
		// missing or invalid required fields
		mustB64(`{"v":1}`),
		mustB64(`{"v":1,"p":"","off":0,"ps":10}`),
		mustB64(`{"v":1,"p":"r.xlsx","off":-1,"ps":10}`),
		mustB64(`{"v":1,"p":"r.xlsx","off":0,"ps":0}`),
	}
	for i, tok := range cases {
		if _, err := DecodeCursor(tok); err == nil {
			t.Fatalf("case %d: expected error for token %q", i, tok)
		}
	}
}

func TestNextOffset(t *testing.T) {
	if got := NextOffset(0, 400); got != 400 {
		t.Fatalf("NextOffset(0, 400) = %d", got)
	}
	if got := NextOffset(-5, 10); got != 10 {
		t.Fatalf("NextOffset(-5, 10) = %d", got)
	}
	if got := NextOffset(100, 0); got != 100 {
		t.Fatalf("NextOffset(100, 0) = %d", got)
	}
}

func FuzzDecodeCursor(f *testing.F) {
	seeds := []string{
		"", "abc", mustB64(`{"v":1}`),
		mustB64(`{"v":1,"p":"r.xlsx","off":0,"ps":1}`),
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, token string) {
		_, _ = DecodeCursor(token)
	})
}

func mustB64(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}
