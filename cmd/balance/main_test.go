package main

import (
	"bytes"
	"strings"
	"testing"

	"balance_reporter/internal/infrastructure/configloader"
)

func TestListNetworksMasksKeys(t *testing.T) {
	const key = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	cfg, err := configloader.Parse([]byte(`
networks:
  cfxTestnet:
    url: https://test.confluxrpc.com
    accounts: ["` + key + `"]
  draft:
    accounts: []
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var out bytes.Buffer
	if err := listNetworks(cfg, &out); err != nil {
		t.Fatalf("listNetworks: %v", err)
	}
	got := out.String()
	if strings.Contains(got, key) {
		t.Fatalf("listing exposes a secret key:\n%s", got)
	}
	if !strings.Contains(got, "0x4c08...2318") || !strings.Contains(got, "(no url, skipped)") {
		t.Fatalf("unexpected listing:\n%s", got)
	}
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "cfxTestnet ") {
		t.Fatalf("unexpected lines: %q", lines)
	}
}
