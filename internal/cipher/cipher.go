// Package cipher seals the persisted state blob under a passphrase-derived
// key. Decryption fails on any bit flip, truncation, or wrong passphrase,
// so a blob that opens at all is known intact.
package cipher

import (
	stdcipher "crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// NonceSize is the length of the random prefix on every sealed blob.
const NonceSize = chacha20poly1305.NonceSize

// kdfSalt is a fixed domain-separation salt for the passphrase KDF.
// The derivation must be deterministic — the same passphrase always
// yields the same key — so the salt cannot be per-file.
var kdfSalt = []byte("timefence/state-key/v1")

// Argon2id parameters for passphrase key derivation.
const (
	kdfTime    = 1
	kdfMemory  = 64 * 1024 // KiB
	kdfThreads = 4
	keyLen     = 32
)

var (
	// ErrTooShort means the input cannot even hold the nonce prefix.
	ErrTooShort = errors.New("cipher: input shorter than nonce prefix")

	// ErrMalformed means the body after the nonce is too short to carry
	// an authentication tag.
	ErrMalformed = errors.New("cipher: malformed ciphertext")

	// ErrAuthentication means the tag did not verify: a bit flip, a
	// truncated body, or the wrong passphrase.
	ErrAuthentication = errors.New("cipher: authentication failed")
)

// Cipher seals and opens blobs with ChaCha20-Poly1305 under a key derived
// from a passphrase. It holds no state between calls.
type Cipher struct {
	aead stdcipher.AEAD
}

// New derives the symmetric key from the passphrase with Argon2id and
// returns a ready cipher. The passphrase is never persisted.
func New(passphrase []byte) (*Cipher, error) {
	if len(passphrase) == 0 {
		return nil, errors.New("cipher: passphrase must not be empty")
	}

	key := argon2.IDKey(passphrase, kdfSalt, kdfTime, kdfMemory, kdfThreads, keyLen)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("cipher: init aead: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals the plaintext under a freshly sampled nonce. The output is
// nonce||ciphertext; two calls on the same plaintext produce different
// blobs.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize, NonceSize+len(plaintext)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("cipher: sample nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt consumes the nonce prefix and opens the body. Empty plaintext
// round-trips: sealing zero bytes yields nonce plus tag, which opens back
// to zero bytes.
func (c *Cipher) Decrypt(blob []byte) ([]byte, error) {
	if len(blob) < NonceSize {
		return nil, ErrTooShort
	}

	body := blob[NonceSize:]
	if len(body) < c.aead.Overhead() {
		return nil, ErrMalformed
	}

	plaintext, err := c.aead.Open(nil, blob[:NonceSize], body, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}
