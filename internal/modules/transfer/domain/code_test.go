package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_AlphabetAndLength(t *testing.T) {
	for range 200 {
		code, err := GenerateCode(DefaultCodeLength)
		require.NoError(t, err)
		require.Len(t, code, DefaultCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(CodeAlphabet, r), "unexpected symbol %q in %s", r, code)
		}
	}
}

func TestGenerateCode_ExcludesAmbiguousSymbols(t *testing.T) {
	for _, r := range "0OI1L" {
		assert.False(t, strings.ContainsRune(CodeAlphabet, r))
	}
}

func TestGenerateUniqueCode_AvoidsExistingSet(t *testing.T) {
	existing := make(map[string]struct{})
	for range 500 {
		code, err := GenerateCode(DefaultCodeLength)
		require.NoError(t, err)
		existing[code] = struct{}{}
	}

	for range 100 {
		code, err := GenerateUniqueCode(existing, DefaultCodeLength)
		require.NoError(t, err)
		_, taken := existing[code]
		assert.False(t, taken, "generated code %s collides", code)
	}
}

func TestGenerateUniqueCode_WidensWhenExhausted(t *testing.T) {
	// With every single-character code taken, the retry budget must run out
	// and the generator fall back to length+2.
	existing := make(map[string]struct{}, len(CodeAlphabet))
	for _, r := range CodeAlphabet {
		existing[string(r)] = struct{}{}
	}

	code, err := GenerateUniqueCode(existing, 1)
	require.NoError(t, err)
	assert.Len(t, code, 3)
}

func TestGenerateUniqueCode_EmptySet(t *testing.T) {
	code, err := GenerateUniqueCode(nil, DefaultCodeLength)
	require.NoError(t, err)
	assert.Len(t, code, DefaultCodeLength)
}

func TestFormatCode(t *testing.T) {
	assert.Equal(t, "ABCD-1234", FormatCode("ABCD1234"))
	assert.Equal(t, "ABCDE-F2345", FormatCode("ABCDEF2345"))
	assert.Equal(t, "AB-C23", FormatCode("ABC23"))
	assert.Equal(t, "ABCD", FormatCode("ABCD"))
	assert.Equal(t, "AB", FormatCode("AB"))
}

func TestFormatCode_RoundTrip(t *testing.T) {
	for range 50 {
		code, err := GenerateCode(DefaultCodeLength)
		require.NoError(t, err)
		assert.Equal(t, code, NormalizeCode(FormatCode(code)))
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "ABCD2345", NormalizeCode("abcd-2345"))
	assert.Equal(t, "ABCD2345", NormalizeCode(" AB cd_23:45 "))
	assert.Equal(t, "", NormalizeCode("---"))
}
