package main

import (
	"fmt"

	"github.com/gofrs/uuid"
)

// SessionIDPrefix marks the identifiers of shell sessions.
const SessionIDPrefix string = "s"

// NewSessionID provides a random identifier for a shell session. It tags
// the session logs and namespaces the session books in shared backends.
func NewSessionID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return SessionIDPrefix + ":" + id.String(), nil
}
