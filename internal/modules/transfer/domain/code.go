package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// CodeAlphabet is the set of symbols codes are drawn from: uppercase letters
// and digits with the visually ambiguous 0, O, I, 1 and L excluded, so codes
// survive being transcribed by hand.
const CodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// DefaultCodeLength is the standard code length for new transfers.
const DefaultCodeLength = 8

// maxUniqueAttempts bounds the collision-retry loop before widening the code.
const maxUniqueAttempts = 100

// GenerateCode produces a code of the given length drawn uniformly at random
// from CodeAlphabet. The generator has no knowledge of existing codes;
// collision handling is the caller's job.
func GenerateCode(length int) (string, error) {
	alphabetLen := big.NewInt(int64(len(CodeAlphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("crypto/rand failure: %w", err)
		}
		code[i] = CodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// GenerateUniqueCode resamples until it finds a code absent from existing,
// up to a fixed retry budget. If every attempt collides it falls back to a
// code two characters longer to shrink the collision probability; it never
// fails outright. Membership checks are O(1) per attempt.
func GenerateUniqueCode(existing map[string]struct{}, length int) (string, error) {
	if len(existing) == 0 {
		return GenerateCode(length)
	}

	for range maxUniqueAttempts {
		code, err := GenerateCode(length)
		if err != nil {
			return "", err
		}
		if _, taken := existing[code]; !taken {
			return code, nil
		}
	}

	return GenerateCode(length + 2)
}

// FormatCode renders a code for display by splitting it at the midpoint,
// e.g. ABCD1234 -> ABCD-1234. Codes of length 4 or less are returned
// unchanged. Purely cosmetic: the stored code never carries the separator.
func FormatCode(code string) string {
	if len(code) <= 4 {
		return code
	}
	mid := len(code) / 2
	return code[:mid] + "-" + code[mid:]
}

// NormalizeCode strips display formatting from user input: uppercases and
// drops everything outside the code character set. Applied at the HTTP
// boundary before any lookup.
func NormalizeCode(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range strings.ToUpper(input) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
