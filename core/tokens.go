package core

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// GenerateToken produces 256 bits from the OS entropy source, hex encoded to
// 64 lowercase characters. The plaintext token only ever lives in the email
// body and the acceptance URL; storage sees nothing but its hash.
func GenerateToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}

	return hex.EncodeToString(buf)
}

// HashToken is the one-way form a token is persisted and looked up under.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidTokenFormat screens presented tokens before any storage round trip.
func ValidTokenFormat(token string) bool {
	return tokenPattern.MatchString(token)
}

// BuildInvitationURL is the acceptance link placed in invitation mail.
func BuildInvitationURL(baseURL, token string) string {
	return strings.TrimSuffix(baseURL, "/") + "/accept-invitation?token=" + token
}
