package conflux

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestEncodeBase32KnownVector(t *testing.T) {
	addr := common.HexToAddress("0x106d49f8505410eb4e671d51f7d96d2c87807b09")

	got, err := EncodeBase32(addr, MainnetID)
	if err != nil {
		t.Fatalf("EncodeBase32: %v", err)
	}
	if got != "cfx:aajg4wt2mbmbb44sp6szd783ry0jtad5bea80xdy7p" {
		t.Fatalf("EncodeBase32 = %q", got)
	}
}

func TestNetworkPrefix(t *testing.T) {
	cases := map[uint64]string{
		MainnetID: "cfx",
		TestnetID: "cfxtest",
		8888:      "net8888",
	}
	for id, want := range cases {
		if got := NetworkPrefix(id); got != want {
			t.Fatalf("NetworkPrefix(%d) = %q, want %q", id, got, want)
		}
	}
}

func TestEncodeBase32Shape(t *testing.T) {
	addr := common.HexToAddress("0x106d49f8505410eb4e671d51f7d96d2c87807b09")
	got, err := EncodeBase32(addr, 8888)
	if err != nil {
		t.Fatalf("EncodeBase32: %v", err)
	}
	prefix, body, ok := strings.Cut(got, ":")
	if !ok || prefix != "net8888" {
		t.Fatalf("unexpected prefix in %q", got)
	}
	if len(body) != 42 {
		t.Fatalf("body length = %d, want 42", len(body))
	}
	for _, r := range body {
		if !strings.ContainsRune(base32Alphabet, r) {
			t.Fatalf("character %q outside the alphabet in %q", r, got)
		}
	}
}

func TestEncodeBase32RejectsZeroAddress(t *testing.T) {
	if _, err := EncodeBase32(common.Address{}, MainnetID); err == nil {
		t.Fatalf("expected error for zero address")
	}
}

func TestUserAddressSetsTypeNibble(t *testing.T) {
	in := common.HexToAddress("0xf06d49f8505410eb4e671d51f7d96d2c87807b09")
	got := UserAddress(in)
	if got[0] != 0x10 {
		t.Fatalf("first byte = %#x, want 0x10", got[0])
	}
	if !bytes.Equal(got[1:], in[1:]) {
		t.Fatalf("tail bytes changed")
	}
}

func TestDeriveAddress(t *testing.T) {
	const key = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

	withPrefix, err := DeriveAddress(key, TestnetID)
	if err != nil {
		t.Fatalf("DeriveAddress: %v", err)
	}
	bare, err := DeriveAddress(strings.TrimPrefix(key, "0x"), TestnetID)
	if err != nil {
		t.Fatalf("DeriveAddress without 0x: %v", err)
	}
	if withPrefix != bare {
		t.Fatalf("0x prefix changed the address: %q vs %q", withPrefix, bare)
	}
	if !strings.HasPrefix(withPrefix, "cfxtest:aa") {
		t.Fatalf("unexpected testnet address %q", withPrefix)
	}

	if _, err := DeriveAddress("not-a-key", TestnetID); err == nil {
		t.Fatalf("expected error for malformed key")
	}
}
