package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// GenerateRequestID generates a unique request ID (16 hex characters)
func GenerateRequestID() string {
	return generateHex(8)
}

// GenerateSessionID generates a UUID correlating messages across calls.
// Sessions are not persisted; the ID only travels in the response envelope
// and in whatever history the configured session store keeps.
func GenerateSessionID() string {
	return uuid.New().String()
}

// GenerateCorrelationID generates a UUID for correlation tracking
func GenerateCorrelationID() string {
	return uuid.New().String()
}

// GenerateChatCompletionID generates an OpenAI-compatible chat completion ID
func GenerateChatCompletionID() string {
	return fmt.Sprintf("chatcmpl-%s", generateHex(16))
}

// GenerateSystemFingerprint generates a system fingerprint
func GenerateSystemFingerprint() string {
	return fmt.Sprintf("fp_%s", generateHex(6))
}

// generateHex generates a random hex string of the specified byte length
func generateHex(byteLength int) string {
	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		// crypto/rand failing is effectively unrecoverable; fall back to a UUID
		return uuid.New().String()[:byteLength*2]
	}
	return hex.EncodeToString(bytes)
}
