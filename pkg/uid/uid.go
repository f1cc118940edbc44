package uid

import "github.com/google/uuid"

// canonicalLen is the length of the hyphenated 8-4-4-4-12 form.
const canonicalLen = 36

// New returns a random version 4 UUID in canonical form.
func New() string {
	return uuid.NewString()
}

// IsValid reports whether id is a UUID in canonical form. The braced and
// urn:uuid: spellings uuid.Parse also accepts are rejected, so a valid id can
// be echoed into headers and file names unchanged.
func IsValid(id string) bool {
	if len(id) != canonicalLen {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
