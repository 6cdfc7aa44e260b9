package utils

const (
	maskPrefixLen = 6
	maskSuffixLen = 4
	maskFiller    = "..."
)

// MaskSecret builds the display label of a secret key: the first six and last four
// characters joined by "...". Keys too short to keep anything hidden are fully masked.
func MaskSecret(secret string) string {
	if len(secret) <= maskPrefixLen+maskSuffixLen {
		return maskFiller
	}
	return secret[:maskPrefixLen] + maskFiller + secret[len(secret)-maskSuffixLen:]
}
