package credential

import (
	"strings"
)

// HashedPlaceholder is what Reveal shows for a one-way hashed password.
const HashedPlaceholder = "[Password is hashed]"

// Kind is the shape of a stored password value.
type Kind int

const (
	KindUnknown Kind = iota
	KindEncrypted
	KindHashed
)

func (k Kind) String() string {
	switch k {
	case KindEncrypted:
		return "encrypted"
	case KindHashed:
		return "hashed"
	default:
		return "unknown"
	}
}

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// StoredSecret is a classified password column value.
type StoredSecret struct {
	Kind      Kind
	Raw       string
	IVHex     string
	CipherHex string
}

// Classify decides the kind of stored by its shape alone.
func Classify(stored string) StoredSecret {
	if iv, ct, ok := strings.Cut(stored, separator); ok {
		return StoredSecret{Kind: KindEncrypted, Raw: stored, IVHex: iv, CipherHex: ct}
	}
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(stored, p) {
			return StoredSecret{Kind: KindHashed, Raw: stored}
		}
	}
	return StoredSecret{Kind: KindUnknown, Raw: stored}
}

// Reveal returns a displayable form of stored. ok is false when nothing
// can be shown, either because the value has an unknown shape or because
// decryption failed; err carries the decryption failure.
func (c *Cipher) Reveal(stored string) (value string, ok bool, err error) {
	s := Classify(stored)
	switch s.Kind {
	case KindEncrypted:
		plain, err := c.decrypt(s.IVHex, s.CipherHex)
		if err != nil {
			return "", false, err
		}
		return plain, true, nil
	case KindHashed:
		return HashedPlaceholder, true, nil
	default:
		return "", false, nil
	}
}
