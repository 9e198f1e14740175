package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amberhq/amber/internal/profile"
)

func testCredentialKey(t *testing.T) *[credentialKeySize]byte {
	t.Helper()
	s := New(nil, &profile.Profile{CredentialKey: strings.Repeat("ab", credentialKeySize)})
	key, err := s.credentialKey()
	require.NoError(t, err)
	return key
}

func TestSealAndOpenCredential(t *testing.T) {
	key := testCredentialKey(t)
	plaintext := []byte(`{"api_key":"sk-test"}`)

	sealed, err := sealCredential(key, plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, sealed)
	assert.Greater(t, len(sealed), 24)

	opened, err := openCredential(key, sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestOpenCredential_Tampered(t *testing.T) {
	key := testCredentialKey(t)

	sealed, err := sealCredential(key, []byte("secret"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xff
	_, err = openCredential(key, sealed)
	require.Error(t, err)
}

func TestOpenCredential_TooShort(t *testing.T) {
	key := testCredentialKey(t)

	_, err := openCredential(key, []byte("short"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestCredentialKey_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"not hex", strings.Repeat("zz", credentialKeySize)},
		{"wrong length", "abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil, &profile.Profile{CredentialKey: tt.key})
			_, err := s.credentialKey()
			require.Error(t, err)
		})
	}
}
