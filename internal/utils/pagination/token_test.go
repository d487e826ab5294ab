package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	occurredAt := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	createdAt := time.Date(2024, 5, 15, 10, 0, 0, 123456789, time.UTC)

	token := EncodeToken(occurredAt, createdAt)
	assert.NotEmpty(t, token)

	decodedOccurredAt, decodedCreatedAt, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, occurredAt, decodedOccurredAt)
	assert.Equal(t, createdAt, decodedCreatedAt)
}

func TestDecodeToken_Invalid(t *testing.T) {
	_, _, err := DecodeToken("not-base64!!")
	assert.Error(t, err)

	// Valid base64 but missing the separator.
	_, _, err = DecodeToken("bm8gc2VwYXJhdG9y")
	assert.Error(t, err)
}

func TestEncodeDecodeDateBasedToken(t *testing.T) {
	openingAt := time.Date(2024, 7, 1, 8, 30, 0, 0, time.UTC)

	token := EncodeDateBasedToken(openingAt)
	decoded, err := DecodeDateBasedToken(token)
	assert.NoError(t, err)
	assert.True(t, openingAt.Equal(decoded))

	_, err = DecodeDateBasedToken("%%%")
	assert.Error(t, err)
}
