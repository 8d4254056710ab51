package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)
	id := "0c4b9f1e-8f0a-4a6e-9a41-2f4a6b1c9d70"

	token := EncodeToken(createdAt, id)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedCreatedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.True(t, createdAt.Equal(decodedCreatedAt), "Created at time should match after decode")
	assert.Equal(t, id, decodedID, "Row ID should match after decode")

	// Current time values survive the round trip at nanosecond precision.
	now := time.Now().UTC()
	nowToken := EncodeToken(now, id)
	decodedNow, _, err := DecodeToken(nowToken)
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	// Invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Valid base64 but missing separator
	_, _, err = DecodeToken("bm8tc2VwYXJhdG9y") // "no-separator"
	assert.Error(t, err, "Should return an error for a token without separator")

	// Separator present but empty ID
	_, _, err = DecodeToken(EncodeToken(time.Now().UTC(), ""))
	assert.Error(t, err, "Should return an error for an empty row ID")

	// Unparseable timestamp
	_, _, err = DecodeToken("bm90LWEtdGltZXxzb21lLWlk") // "not-a-time|some-id"
	assert.Error(t, err, "Should return an error for an invalid timestamp")
}
