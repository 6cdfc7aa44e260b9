package utils

import (
	"strings"
	"testing"
)

func TestMaskSecret(t *testing.T) {
	key := "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	got := MaskSecret(key)
	if got != "0x4c08...2318" {
		t.Fatalf("MaskSecret = %q", got)
	}
	if strings.Contains(got, key) {
		t.Fatalf("label exposes the key")
	}

	for _, short := range []string{"", "abc", "0123456789"} {
		if got := MaskSecret(short); got != "..." {
			t.Fatalf("MaskSecret(%q) = %q, want fully masked", short, got)
		}
	}

	if got := MaskSecret("0123456789a"); got != "012345...789a" {
		t.Fatalf("MaskSecret(11 chars) = %q", got)
	}
}
