package helpers

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("testtest")
	require.NoError(t, err)
	require.NotEqual(t, "testtest", hash)
	require.True(t, CompareHashAndPassword(hash, "testtest"))
	require.False(t, CompareHashAndPassword(hash, "testtesT"))
	require.False(t, CompareHashAndPassword("", "testtest"))

	again, err := HashPassword("testtest")
	require.NoError(t, err)
	require.NotEqual(t, hash, again, "hashes must be salted")

	_, err = HashPassword("")
	require.ErrorIs(t, err, ErrEmptyPassword)
}

func TestNewAccessToken(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 64; i++ {
		tok, err := NewAccessToken()
		require.NoError(t, err)
		require.Len(t, tok, AccessTokenBytes*2)
		_, err = hex.DecodeString(tok)
		require.NoError(t, err)
		_, dup := seen[tok]
		require.False(t, dup)
		seen[tok] = struct{}{}
	}
}

func TestPublicURL(t *testing.T) {
	require.Equal(t, "https://storage.googleapis.com/bucket/images/a.png", PublicURL("bucket", "images/a.png"))
}

func TestLogErrorAndInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	LogError(logger, "list news failed", errors.New("conn reset"), logrus.Fields{"request_id": "r-1"})
	LogInfo(logger, "email sent", nil)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))
	require.Equal(t, "error", first["level"])
	require.Equal(t, "conn reset", first["error"])
	require.Equal(t, "r-1", first["request_id"])
	require.Equal(t, "info", second["level"])
	require.Equal(t, "email sent", second["msg"])

	require.NotPanics(t, func() {
		LogError(nil, "x", errors.New("y"), nil)
		LogInfo(nil, "x", nil)
	})
}
