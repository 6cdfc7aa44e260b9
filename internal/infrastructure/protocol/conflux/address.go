package conflux

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Network ids with a reserved base32 prefix.
const (
	MainnetID uint64 = 1029
	TestnetID uint64 = 1
)

const (
	base32Alphabet = "abcdefghjkmnprstuvwxyz0123456789"
	versionByte    = 0x00
	userTypeNibble = 0x10
	checksumWords  = 8
)

var errEmptyAddress = errors.New("empty hex address")

// NetworkPrefix returns the base32 address prefix for a Conflux network id.
func NetworkPrefix(networkID uint64) string {
	switch networkID {
	case MainnetID:
		return "cfx"
	case TestnetID:
		return "cfxtest"
	default:
		return fmt.Sprintf("net%d", networkID)
	}
}

// UserAddress turns an account address derived the Ethereum way into a Conflux
// user address by forcing the type nibble to 0x1.
func UserAddress(addr common.Address) common.Address {
	out := addr
	out[0] = out[0]&0x0f | userTypeNibble
	return out
}

// EncodeBase32 renders a hex address in the CIP-37 base32 form, e.g. "cfx:aaj...".
func EncodeBase32(addr common.Address, networkID uint64) (string, error) {
	if addr == (common.Address{}) {
		return "", errEmptyAddress
	}
	prefix := NetworkPrefix(networkID)

	payload := make([]byte, 0, common.AddressLength+1)
	payload = append(payload, versionByte)
	payload = append(payload, addr.Bytes()...)
	words := convertBits(payload, 8, 5)

	checksumInput := make([]byte, 0, len(prefix)+1+len(words)+checksumWords)
	for i := 0; i < len(prefix); i++ {
		checksumInput = append(checksumInput, prefix[i]&0x1f)
	}
	checksumInput = append(checksumInput, 0)
	checksumInput = append(checksumInput, words...)
	checksumInput = append(checksumInput, make([]byte, checksumWords)...)
	sum := polymod(checksumInput)

	var sb strings.Builder
	sb.Grow(len(prefix) + 1 + len(words) + checksumWords)
	sb.WriteString(prefix)
	sb.WriteByte(':')
	for _, w := range words {
		sb.WriteByte(base32Alphabet[w])
	}
	for i := checksumWords - 1; i >= 0; i-- {
		sb.WriteByte(base32Alphabet[(sum>>(5*uint(i)))&0x1f])
	}
	return sb.String(), nil
}

// convertBits regroups data from fromBits-wide to toBits-wide words, zero padding the tail.
func convertBits(data []byte, fromBits, toBits uint) []byte {
	var (
		acc  uint
		bits uint
		out  = make([]byte, 0, (len(data)*int(fromBits)+int(toBits)-1)/int(toBits))
		mask = uint(1)<<toBits - 1
	)
	for _, b := range data {
		acc = acc<<fromBits | uint(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte(acc>>bits&mask))
		}
	}
	if bits > 0 {
		out = append(out, byte(acc<<(toBits-bits)&mask))
	}
	return out
}

func polymod(values []byte) uint64 {
	c := uint64(1)
	for _, d := range values {
		c0 := c >> 35
		c = (c&0x07ffffffff)<<5 ^ uint64(d)
		if c0&0x01 != 0 {
			c ^= 0x98f2bc8e61
		}
		if c0&0x02 != 0 {
			c ^= 0x79b76d99e2
		}
		if c0&0x04 != 0 {
			c ^= 0xf33e5fb3c4
		}
		if c0&0x08 != 0 {
			c ^= 0xae2eabe2a8
		}
		if c0&0x10 != 0 {
			c ^= 0x1e4f43e470
		}
	}
	return c ^ 1
}
