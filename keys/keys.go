// Package keys generates and validates the short codes users share to join a room.
package keys

import (
	"keyroom/rng"
	"strings"
)

const (
	// Length is the exact number of characters in a communication key.
	Length   = 8
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CommunicationKey identifies a chat room for joining. It is shown to users as plain text.
type CommunicationKey string

func (k CommunicationKey) String() string {
	return string(k)
}

type KeyService struct {
	src rng.Source
}

func NewKeyService(src rng.Source) KeyService {
	if src == nil {
		src = rng.Default()
	}
	return KeyService{src: src}
}

// Generate draws every character independently from [A-Z0-9].
// Uniqueness is not checked: two rooms may end up with the same key.
func (s KeyService) Generate() CommunicationKey {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		b.WriteByte(alphabet[s.src.IntN(len(alphabet))])
	}
	return CommunicationKey(b.String())
}

// IsValid reports whether candidate is exactly eight characters of [A-Z0-9].
// Lowercase input is rejected, callers run Normalize first.
func IsValid(candidate string) bool {
	if len(candidate) != Length {
		return false
	}
	for i := 0; i < len(candidate); i++ {
		c := candidate[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// Normalize trims surrounding whitespace and uppercases user input before validation.
func Normalize(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}

// Parse normalizes input and returns it as a key when valid.
func Parse(input string) (CommunicationKey, bool) {
	normalized := Normalize(input)
	if !IsValid(normalized) {
		return "", false
	}
	return CommunicationKey(normalized), true
}
