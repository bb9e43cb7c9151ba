package util

import (
	"github.com/google/uuid"
)

// NewInviteToken returns an opaque unique token for invitation links.
func NewInviteToken() string {
	return uuid.NewString()
}
