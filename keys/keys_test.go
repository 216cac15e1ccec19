package keys

import (
	"keyroom/rng"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyService_Generate_AlwaysValid(t *testing.T) {
	req := require.New(t)
	service := NewKeyService(rng.Seeded(1, 2))

	for i := 0; i < 1000; i++ {
		key := service.Generate()
		req.Len(key.String(), Length)
		for _, c := range key.String() {
			req.True(strings.ContainsRune(alphabet, c), "unexpected character %q in %s", c, key)
		}
		req.True(IsValid(key.String()))
	}
}

func TestKeyService_Generate_UsesSource(t *testing.T) {
	req := require.New(t)
	// Indexes into "A..Z0..9": 0=A, 25=Z, 26=0, 35=9
	service := NewKeyService(rng.Sequence(0, 25, 26, 35, 1, 2, 27, 28))

	req.Equal(CommunicationKey("AZ09BC12"), service.Generate())
}

func TestKeyService_Generate_DefaultSource(t *testing.T) {
	req := require.New(t)
	service := NewKeyService(nil)

	req.True(IsValid(service.Generate().String()))
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		expected  bool
	}{
		{name: "Empty string", candidate: "", expected: false},
		{name: "Too short", candidate: "SHORT", expected: false},
		{name: "Too long", candidate: "TOOLONGKEY", expected: false},
		{name: "Lowercase is rejected", candidate: "abc12345", expected: false},
		{name: "Uppercase alphanumeric", candidate: "ABC12345", expected: true},
		{name: "Digits only", candidate: "01234567", expected: true},
		{name: "Punctuation", candidate: "ABC-1234", expected: false},
		{name: "Inner space", candidate: "ABC 1234", expected: false},
		{name: "Multibyte rune", candidate: "ABCDÉFG", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, IsValid(tt.candidate))
		})
	}
}

func TestParse_NormalizesUserInput(t *testing.T) {
	req := require.New(t)

	key, ok := Parse("  abc12345 ")
	req.True(ok)
	req.Equal(CommunicationKey("ABC12345"), key)

	key, ok = Parse("abc")
	req.False(ok)
	req.Empty(key)
}
