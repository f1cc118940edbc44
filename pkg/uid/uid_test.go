package uid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsValid(t *testing.T) {
	a, b := New(), New()
	assert.True(t, IsValid(a))
	assert.NotEqual(t, a, b)
}

func TestIsValidRejectsOtherSpellings(t *testing.T) {
	const id = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

	assert.True(t, IsValid(id))
	assert.False(t, IsValid("{"+id+"}"))
	assert.False(t, IsValid("urn:uuid:"+id))
	assert.False(t, IsValid("6ba7b8109dad11d180b400c04fd430c8"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("not-a-uuid-but-thirty-six-chars-long"))
}
