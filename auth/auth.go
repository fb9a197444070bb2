// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidToken    = errors.New("invalid token format")
)

// VoterIDPrefix is the prefix on every generated voter ID.
const VoterIDPrefix = "VOT"

// GenerateVoterToken creates a random secure bearer token for a voter.
// The token is the voter's sole credential for casting ballots.
func GenerateVoterToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate voter token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// GenerateVoterID creates a roster-matching voter ID of the form
// VOT followed by six digits. Uniqueness is enforced by the voter
// table's constraint; callers retry on collision.
func GenerateVoterID() (string, error) {
	var b [8]byte
	_, err := rand.Read(b[:])
	if err != nil {
		return "", fmt.Errorf("failed to generate voter ID: %w", err)
	}
	n := binary.BigEndian.Uint64(b[:]) % 900000
	return fmt.Sprintf("%s%06d", VoterIDPrefix, 100000+n), nil
}

// ValidateAdminKey checks the presented admin key against the configured
// one in constant time.
func ValidateAdminKey(presented, expected string) error {
	if expected == "" || !hmac.Equal([]byte(presented), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
