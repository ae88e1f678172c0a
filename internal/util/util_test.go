package util

import (
	"encoding/base64"
	"testing"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"uppercase tag", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"one line fence", "```json{\"a\":1}```", `{"a":1}`},
		{"body on fence line", "```{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := StripCodeFences(tt.in); got != tt.want {
			t.Errorf("%s: StripCodeFences() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDecodeBase64MaybeDataURL(t *testing.T) {
	raw := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	b64 := base64.StdEncoding.EncodeToString(raw)

	b, mime, err := DecodeBase64MaybeDataURL(b64)
	if err != nil || mime != "" || len(b) != len(raw) {
		t.Errorf("plain base64: %v %q %v", b, mime, err)
	}

	b, mime, err = DecodeBase64MaybeDataURL("data:image/jpeg;base64," + b64)
	if err != nil {
		t.Fatalf("data url: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("mime hint = %q, want image/jpeg", mime)
	}
	if len(b) != len(raw) {
		t.Errorf("decoded %d bytes, want %d", len(b), len(raw))
	}

	if _, _, err := DecodeBase64MaybeDataURL("!!!not base64!!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestPickMIME(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}
	if got := PickMIME("image/webp", "image/png", jpeg); got != "image/webp" {
		t.Errorf("explicit not preferred: %q", got)
	}
	if got := PickMIME("", "image/png", jpeg); got != "image/png" {
		t.Errorf("hint not used: %q", got)
	}
	if got := PickMIME("", "", jpeg); got != "image/jpeg" {
		t.Errorf("sniff failed: %q", got)
	}
	if got := PickMIME("", "", nil); got != "image/jpeg" {
		t.Errorf("default = %q, want image/jpeg", got)
	}
}
