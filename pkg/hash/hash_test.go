package hash

import (
	"testing"
)

func TestSHA256Hex(t *testing.T) {
	// Known SHA256 of "hello"
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	got := SHA256Hex("hello")
	if got != want {
		t.Errorf("SHA256Hex(\"hello\") = %s, want %s", got, want)
	}
}

func TestSHA256Hex_Empty(t *testing.T) {
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	got := SHA256Hex("")
	if got != want {
		t.Errorf("SHA256Hex(\"\") = %s, want %s", got, want)
	}
}

func TestPrefix(t *testing.T) {
	full := SHA256Hex("203.0.113.7")

	tests := []struct {
		name string
		n    int
		want string
	}{
		{"12 chars", 12, full[:12]},
		{"16 chars", 16, full[:16]},
		{"full hash if too long", 100, full},
		{"full hash if negative", -1, full},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Prefix("203.0.113.7", tt.n); got != tt.want {
				t.Errorf("Prefix(_, %d) = %s, want %s", tt.n, got, tt.want)
			}
		})
	}
}

func TestIPKey(t *testing.T) {
	ip := "192.168.1.1"
	salt := "random-salt-value"
	key := IPKey(ip, salt)

	if len(key) != 16 {
		t.Errorf("IPKey length = %d, want 16", len(key))
	}
	if key != IPKey(ip, salt) {
		t.Error("IPKey should be deterministic")
	}
	if key == IPKey(ip, "different-salt") {
		t.Error("different salts should produce different keys")
	}
	if key == IPKey("10.0.0.1", salt) {
		t.Error("different IPs should produce different keys")
	}
}
