// Package credential protects staff passwords.
//
// Staff manager passwords are stored reversibly (AES-256-CBC) because the
// admin panel displays them. Admin passwords go through Hasher and are never
// reversible.
package credential

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// KeySize is the required AES-256 key length in bytes.
const KeySize = 32

const separator = ":"

var (
	// ErrKeyLength is returned by NewCipher for a key that is not 32 bytes.
	ErrKeyLength = errors.New("credential: encryption key must be exactly 32 bytes")

	// ErrMalformedCiphertext means the stored value has no IV separator.
	ErrMalformedCiphertext = errors.New("credential: malformed ciphertext")

	// ErrDecryptionFailed covers bad hex, wrong IV size, bad block length,
	// bad padding and non-UTF-8 output, which is what a wrong key produces.
	ErrDecryptionFailed = errors.New("credential: decryption failed")
)

// Cipher encrypts with a single static key. It is safe for concurrent use.
type Cipher struct {
	block cipher.Block
}

// NewCipher builds a Cipher. Surrounding whitespace in key is ignored.
func NewCipher(key string) (*Cipher, error) {
	k := []byte(strings.TrimSpace(key))
	if len(k) != KeySize {
		return nil, fmt.Errorf("%w: got %d", ErrKeyLength, len(k))
	}

	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, fmt.Errorf("credential: %w", err)
	}
	return &Cipher{block: block}, nil
}

// Encrypt returns hex(iv) + ":" + hex(ciphertext) with a fresh random IV.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("credential: failed to generate iv: %w", err)
	}

	padded := pad([]byte(plaintext))
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(iv) + separator + hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	ivHex, ctHex, ok := strings.Cut(encoded, separator)
	if !ok {
		return "", ErrMalformedCiphertext
	}
	return c.decrypt(ivHex, ctHex)
}

func (c *Cipher) decrypt(ivHex, ctHex string) (string, error) {
	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", ErrDecryptionFailed
	}
	ct, err := hex.DecodeString(ctHex)
	if err != nil || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", ErrDecryptionFailed
	}

	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(out, ct)

	plain, err := unpad(out)
	if err != nil || !utf8.Valid(plain) {
		return "", ErrDecryptionFailed
	}
	return string(plain), nil
}

func pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, ErrDecryptionFailed
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, ErrDecryptionFailed
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, ErrDecryptionFailed
		}
	}
	return b[:len(b)-n], nil
}
