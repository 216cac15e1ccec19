// Package domain contains core concepts of the chat system.
// This file defines the local participant.
// No runtime, storage, or UI logic should be added here.
package domain

import "strings"

const MaxUsernameLength = 32

// NormalizeUsername trims the name typed on the welcome screen.
func NormalizeUsername(name string) string {
	return strings.TrimSpace(name)
}
