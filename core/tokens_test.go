package core

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-f]{64}$`)

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		token := GenerateToken()
		require.Regexp(t, pattern, token)

		_, dup := seen[token]
		require.False(t, dup, "duplicate token after %d draws", i)
		seen[token] = struct{}{}
	}
}

func TestHashToken(t *testing.T) {
	token := GenerateToken()

	require.Equal(t, HashToken(token), HashToken(token))
	require.Regexp(t, `^[0-9a-f]{64}$`, HashToken(token))
	require.NotEqual(t, HashToken(token), HashToken(GenerateToken()))
	require.NotEqual(t, token, HashToken(token))
}

func TestValidTokenFormat(t *testing.T) {
	require.True(t, ValidTokenFormat(GenerateToken()))

	require.False(t, ValidTokenFormat(""))
	require.False(t, ValidTokenFormat("abc123"))
	require.False(t, ValidTokenFormat(GenerateToken()+"ff"))

	upper := "AB" + GenerateToken()[2:]
	require.False(t, ValidTokenFormat(upper))

	nonHex := "zz" + GenerateToken()[2:]
	require.False(t, ValidTokenFormat(nonHex))
}

func TestBuildInvitationURL(t *testing.T) {
	token := GenerateToken()

	require.Equal(t, "https://maix.app/accept-invitation?token="+token,
		BuildInvitationURL("https://maix.app", token))
	require.Equal(t, "https://maix.app/accept-invitation?token="+token,
		BuildInvitationURL("https://maix.app/", token))
}
