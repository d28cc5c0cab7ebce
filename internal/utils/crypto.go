package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateLoginToken returns a URL-safe random token for magic links.
// 32 bytes of entropy; only a bcrypt hash of it is ever stored.
func GenerateLoginToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("failed to generate login token: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
