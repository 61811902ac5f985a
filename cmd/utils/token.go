package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// GenerateToken mints an opaque 64-character credential. Global uniqueness
// is enforced by the unique indexes on the appointment token columns, not
// by the generator alone.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("could not generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GeneratePublicToken mints the legacy public token.
func GeneratePublicToken() string {
	return uuid.New().String()
}
