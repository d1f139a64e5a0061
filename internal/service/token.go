package service

import (
	"strings"

	"github.com/google/uuid"
)

// NewConfirmationToken returns 32 hex characters backed by a random UUIDv4.
func NewConfirmationToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
