// Package secretbox sella secretos en reposo (access/refresh tokens) con
// XChaCha20-Poly1305.
//
// Formato: base64(nonce)|base64(ciphertext). Cada Seal usa un nonce aleatorio
// de 24 bytes, así dos sellos del mismo texto nunca coinciden.
package secretbox

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

const sep = "|"

var (
	ErrMalformed = errors.New("secretbox: malformed sealed value")
	ErrOpen      = errors.New("secretbox: cannot open sealed value")
)

// Sealer cifra y descifra strings.
type Sealer interface {
	Seal(plain string) (string, error)
	Open(sealed string) (string, error)
}

type box struct {
	aead cipher.AEAD
	// ad liga el ciphertext a su uso ("social_connection.access_token").
	ad []byte
}

// New crea un Sealer con una clave de 32 bytes.
func New(key []byte, purpose string) (Sealer, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("secretbox: key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("secretbox: init: %w", err)
	}
	return &box{aead: aead, ad: []byte(purpose)}, nil
}

// NewFromBase64 decodifica la clave (openssl rand -base64 32).
func NewFromBase64(b64, purpose string) (Sealer, error) {
	k, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return nil, fmt.Errorf("secretbox: decode key: %w", err)
	}
	return New(k, purpose)
}

func (b *box) Seal(plain string) (string, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("secretbox: nonce: %w", err)
	}
	ct := b.aead.Seal(nil, nonce, []byte(plain), b.ad)
	return base64.StdEncoding.EncodeToString(nonce) + sep + base64.StdEncoding.EncodeToString(ct), nil
}

func (b *box) Open(sealed string) (string, error) {
	parts := strings.Split(sealed, sep)
	if len(parts) != 2 {
		return "", ErrMalformed
	}
	nonce, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil || len(nonce) != b.aead.NonceSize() {
		return "", ErrMalformed
	}
	ct, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", ErrMalformed
	}
	pt, err := b.aead.Open(nil, nonce, ct, b.ad)
	if err != nil {
		return "", ErrOpen
	}
	return string(pt), nil
}

// Plain no cifra. Solo para desarrollo sin TOKEN_SEALING_KEY.
type Plain struct{}

func (Plain) Seal(s string) (string, error) { return s, nil }
func (Plain) Open(s string) (string, error) { return s, nil }
