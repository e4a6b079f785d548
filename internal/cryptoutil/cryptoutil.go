package cryptoutil

// Package cryptoutil implements the symmetric payload ciphers of the VauID
// 2.0 postback protocol. Two generations exist; the active one is selected
// by configuration at startup, never by payload content, so a peer cannot
// downgrade the handshake.

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Version selects a cipher generation.
type Version string

const (
	// VersionLegacy is the original wire format: AES-256 in ECB mode,
	// zero-padded, hex-encoded. Ciphertext is a pure function of key and
	// plaintext. Kept for compatibility with deployed VAU peers only.
	VersionLegacy Version = "legacy"
	// VersionAEAD is the authenticated generation: AES-256-GCM with a
	// random nonce, hex-encoded as nonce||ciphertext.
	VersionAEAD Version = "aead"
)

// ErrMissingKey is returned at construction time when no validation key is
// configured. This is a deployment defect and should abort startup.
var ErrMissingKey = errors.New("cryptoutil: validation key is required")

// Cipher encrypts and decrypts VAU postback payloads. Implementations are
// stateless and safe for concurrent reuse.
type Cipher interface {
	Encrypt(plaintext []byte) (string, error)
	Decrypt(ciphertext string) ([]byte, error)
}

// New constructs the cipher generation named by version using the shared
// validation key.
//
//nolint:ireturn // callers select the generation by configuration.
func New(version Version, validationKey string) (Cipher, error) {
	if validationKey == "" {
		return nil, ErrMissingKey
	}
	switch version {
	case VersionLegacy, "":
		return NewLegacyCipher(validationKey)
	case VersionAEAD:
		return NewGCMCipher(validationKey)
	default:
		return nil, fmt.Errorf("cryptoutil: unknown cipher version %q", version)
	}
}

// LegacyCipher implements the original VauID 2.0 wire format. ECB leaks
// plaintext block structure and authenticates nothing; it survives here only
// because the peer system speaks nothing else. New deployments use GCMCipher.
type LegacyCipher struct {
	block cipher.Block
}

// NewLegacyCipher builds a LegacyCipher from the shared validation key.
// The key is zero-padded or truncated to 32 bytes, matching the peer's
// key handling.
func NewLegacyCipher(validationKey string) (*LegacyCipher, error) {
	if validationKey == "" {
		return nil, ErrMissingKey
	}
	key := make([]byte, 32)
	copy(key, validationKey)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("legacy cipher: %w", err)
	}
	return &LegacyCipher{block: block}, nil
}

// Encrypt zero-pads plaintext to the block size, encrypts each block
// independently, and hex-encodes the result. Deterministic for a given
// key and plaintext.
func (c *LegacyCipher) Encrypt(plaintext []byte) (string, error) {
	bs := c.block.BlockSize()
	padded := plaintext
	if rem := len(plaintext) % bs; rem != 0 {
		padded = make([]byte, len(plaintext)+bs-rem)
		copy(padded, plaintext)
	}
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += bs {
		c.block.Encrypt(out[i:i+bs], padded[i:i+bs])
	}
	return hex.EncodeToString(out), nil
}

// Decrypt hex-decodes and decrypts the payload, then trims trailing padding
// and whitespace bytes the way the peer's rtrim does.
func (c *LegacyCipher) Decrypt(ciphertext string) ([]byte, error) {
	data, err := hex.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("legacy cipher: decode hex: %w", err)
	}
	bs := c.block.BlockSize()
	if len(data) == 0 || len(data)%bs != 0 {
		return nil, fmt.Errorf("legacy cipher: ciphertext length %d is not a multiple of the block size", len(data))
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += bs {
		c.block.Decrypt(out[i:i+bs], data[i:i+bs])
	}
	return trimPadding(out), nil
}

// trimPadding strips trailing NUL and whitespace bytes from a decrypted
// payload (" \t\n\r\x00\x0b", per the peer's trim set).
func trimPadding(b []byte) []byte {
	end := len(b)
	for end > 0 {
		switch b[end-1] {
		case 0x00, ' ', '\t', '\n', '\r', 0x0b:
			end--
		default:
			return b[:end]
		}
	}
	return b[:0]
}

// GCMCipher is the authenticated cipher generation: AES-256-GCM keyed by the
// SHA-256 of the validation key, hex-encoding nonce||ciphertext. Any
// tampering with the ciphertext fails decryption outright.
type GCMCipher struct {
	aead cipher.AEAD
}

// NewGCMCipher builds a GCMCipher from the shared validation key.
func NewGCMCipher(validationKey string) (*GCMCipher, error) {
	if validationKey == "" {
		return nil, ErrMissingKey
	}
	key := sha256.Sum256([]byte(validationKey))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("gcm cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm cipher: %w", err)
	}
	return &GCMCipher{aead: aead}, nil
}

// Encrypt seals plaintext with a fresh random nonce.
func (c *GCMCipher) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("gcm cipher: nonce: %w", err)
	}
	sealed := c.aead.Seal(nil, nonce, plaintext, nil)
	buf := make([]byte, 0, len(nonce)+len(sealed))
	buf = append(buf, nonce...)
	buf = append(buf, sealed...)
	return hex.EncodeToString(buf), nil
}

// Decrypt opens a payload produced by Encrypt.
func (c *GCMCipher) Decrypt(ciphertext string) ([]byte, error) {
	data, err := hex.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("gcm cipher: decode hex: %w", err)
	}
	ns := c.aead.NonceSize()
	if len(data) < ns {
		return nil, errors.New("gcm cipher: ciphertext too short")
	}
	plaintext, err := c.aead.Open(nil, data[:ns], data[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("gcm cipher: open: %w", err)
	}
	return plaintext, nil
}
