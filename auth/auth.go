// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidAdminKey = errors.New("invalid admin key")

// GenerateAdminKey creates an HMAC-based admin key for an actor name.
// This is deterministic and verifiable; keys are issued out of band.
func GenerateAdminKey(actor, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(actor))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the actor
func ValidateAdminKey(actor, adminKey, salt string) error {
	expected := GenerateAdminKey(actor, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}
