package leadbook

import (
	"strings"

	"github.com/google/uuid"
)

// ID prefixes for businesses that have not been saved.
const (
	// EphemeralPrefix marks a search result held only in memory.
	EphemeralPrefix = "search-"

	// PlaceholderPrefix marks a business whose save did not reach the store.
	PlaceholderPrefix = "temp-"
)

// IsEphemeralID reports whether id belongs to a business that was never saved.
func IsEphemeralID(id string) bool {
	return strings.HasPrefix(id, EphemeralPrefix) || strings.HasPrefix(id, PlaceholderPrefix)
}

// PlaceholderID returns an ID for a business that could not be saved, so
// callers can keep working with it locally.
func PlaceholderID() string {
	return PlaceholderPrefix + uuid.New().String()
}

// ValidatePersistedID returns EINVALID if id cannot refer to a saved business.
func ValidatePersistedID(id string) error {
	if id == "" {
		return Errorf(EINVALID, "business ID required")
	}
	if IsEphemeralID(id) {
		return Errorf(EINVALID, "business %q has not been saved", id)
	}
	return nil
}
