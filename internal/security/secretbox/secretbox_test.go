package secretbox

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	return raw
}

func TestSealOpen_RoundTrip(t *testing.T) {
	s, err := New(testKey(), "test")
	require.NoError(t, err)

	msg := "EAAB-access-token ✓"
	sealed, err := s.Seal(msg)
	require.NoError(t, err)
	assert.NotContains(t, sealed, msg)

	again, err := s.Seal(msg)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce aleatorio por sello")

	pt, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, msg, pt)
}

func TestOpen_DetectsTamper(t *testing.T) {
	s, err := New(testKey(), "test")
	require.NoError(t, err)
	sealed, err := s.Seal("secret")
	require.NoError(t, err)

	parts := strings.Split(sealed, "|")
	ct, _ := base64.StdEncoding.DecodeString(parts[1])
	ct[0] ^= 0xff
	tampered := parts[0] + "|" + base64.StdEncoding.EncodeToString(ct)

	_, err = s.Open(tampered)
	require.ErrorIs(t, err, ErrOpen)
}

func TestOpen_PurposeBindsCiphertext(t *testing.T) {
	a, _ := New(testKey(), "access")
	b, _ := New(testKey(), "refresh")
	sealed, err := a.Seal("x")
	require.NoError(t, err)
	_, err = b.Open(sealed)
	require.ErrorIs(t, err, ErrOpen)
}

func TestOpen_Malformed(t *testing.T) {
	s, _ := New(testKey(), "")
	for _, bad := range []string{"", "nopipe", "a|b|c", "!!|AAAA"} {
		_, err := s.Open(bad)
		assert.ErrorIs(t, err, ErrMalformed, bad)
	}
}

func TestNew_KeyLength(t *testing.T) {
	_, err := New([]byte("short"), "")
	require.Error(t, err)

	_, err = NewFromBase64(base64.StdEncoding.EncodeToString(testKey()), "p")
	require.NoError(t, err)

	_, err = NewFromBase64("%%%", "p")
	require.Error(t, err)
}
