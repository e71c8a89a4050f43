package tag

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTag signals invalid tag parameters.
	ErrInvalidTag = errors.New("invalid tag")
	// ErrNotFound is returned by lookups when no tag has the requested name.
	ErrNotFound = errors.New("tag not found")
)

// ID represents tag identifier. Stored identifiers are always positive.
type ID = int64

// NoMatchID is a filter value that never equals a stored tag identifier.
// Listing with it yields an empty result.
const NoMatchID ID = 0

// Tag represents a label attached to news records.
type Tag struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// NormalizeName trims surrounding spaces. Names are case-sensitive and
// match stored tags exactly.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// New validates a stored tag row and builds the entity.
func New(id ID, name string) (Tag, error) {
	if id <= NoMatchID {
		return Tag{}, fmt.Errorf("%w: id must be positive", ErrInvalidTag)
	}
	norm := NormalizeName(name)
	if norm == "" {
		return Tag{}, fmt.Errorf("%w: name is required", ErrInvalidTag)
	}
	return Tag{
		ID:   id,
		Name: norm,
	}, nil
}
