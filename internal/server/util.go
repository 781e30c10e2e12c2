package server

import (
	"crypto/rand"
	"strings"

	"github.com/google/uuid"
)

// Join codes skip the easily-confused characters.
func newJoinCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "AAAAAA"
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}

// newPlayerIdentity mints a stable identity for a client that did not
// bring one of its own. Browsers persist it locally and present it on
// every join, so the same tab reclaims its seat across reloads.
func newPlayerIdentity() string {
	return uuid.NewString()
}

func isValidIdentity(identity string) bool {
	_, err := uuid.Parse(identity)
	return err == nil
}

func normalizeText(text string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(text), " "))
}
