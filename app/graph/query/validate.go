package query

import (
	"errors"
	"regexp"
)

var ErrInvalidRelationship = errors.New("relationship must be a letter followed by letters, digits or underscores")

// The backend splices the relationship into its graph query text.
var relationshipPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidRelationship reports whether rel is safe to send as a link type.
// The empty relationship is valid and means "no relationship".
func ValidRelationship(rel string) bool {
	return rel == "" || relationshipPattern.MatchString(rel)
}

// Validate checks the normalized input. Build accepts anything, so callers
// taking untrusted input run this first.
func (in Input) Validate() error {
	if !ValidRelationship(in.Normalize().Relationship) {
		return ErrInvalidRelationship
	}

	return nil
}
