package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IncidentKeyPrefix is the prefix for generated incident keys.
const IncidentKeyPrefix = "INC-"

// NewIncidentKey generates a new unique incident key of the form "INC-1a2b3c4d".
// The suffix is the first segment of a UUID v4, short enough for human-facing
// incident identifiers while avoiding collisions.
func NewIncidentKey() string {
	id := uuid.New().String()
	return IncidentKeyPrefix + id[:8]
}

// ValidateIncidentKey checks that a key looks like an incident key.
// Accepts both generated keys ("INC-1a2b3c4d") and seeded keys ("INC-001").
func ValidateIncidentKey(key string) error {
	if !strings.HasPrefix(key, IncidentKeyPrefix) {
		return fmt.Errorf("incident key must start with %q, got %q", IncidentKeyPrefix, key)
	}
	if len(key) == len(IncidentKeyPrefix) {
		return fmt.Errorf("incident key has empty suffix: %q", key)
	}
	return nil
}
