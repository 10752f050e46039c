package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	committedAt := time.Date(2026, 10, 11, 14, 30, 45, 123456789, time.UTC)
	recordID := "5f0c1f57-2a5e-4b8e-9c11-2f3a4b5c6d7e"

	token := EncodeToken(committedAt, recordID)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, committedAt, decodedAt)
	assert.Equal(t, recordID, decodedID)

	// Non-UTC input is normalised.
	local := committedAt.In(time.FixedZone("BST", 3600))
	decodedAt, _, err = DecodeToken(EncodeToken(local, recordID))
	assert.NoError(t, err)
	assert.True(t, committedAt.Equal(decodedAt))
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.StdEncoding.EncodeToString([]byte("2026-10-11T00:00:00Z"))
	_, _, err = DecodeToken(noSeparator)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.StdEncoding.EncodeToString([]byte("notadate|abc"))
	_, _, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "committed_at parse")
}

func TestBefore(t *testing.T) {
	at := time.Date(2026, 10, 11, 12, 0, 0, 0, time.UTC)

	assert.True(t, Before(at.Add(-time.Second), "z", at, "a"))
	assert.False(t, Before(at.Add(time.Second), "a", at, "z"))
	assert.True(t, Before(at, "a", at, "b"))
	assert.False(t, Before(at, "b", at, "b"))
}
