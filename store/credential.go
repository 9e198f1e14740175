package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"
)

// IntegrationCredential holds a third-party integration secret, sealed at
// rest with the instance credential key. Plaintext never touches the driver.
type IntegrationCredential struct {
	ID        int32
	UserID    int32
	Provider  string
	Sealed    []byte // secretbox nonce || ciphertext
	CreatedTs int64
	UpdatedTs int64
}

// FindIntegrationCredential is the find condition for integration credentials.
type FindIntegrationCredential struct {
	ID       *int32
	UserID   *int32
	Provider *string
	Limit    *int
	Offset   *int
}

// DeleteIntegrationCredential is the delete condition for a credential.
type DeleteIntegrationCredential struct {
	ID     int32
	UserID int32
}

const credentialKeySize = 32

func (s *Store) credentialKey() (*[credentialKeySize]byte, error) {
	raw, err := hex.DecodeString(s.profile.CredentialKey)
	if err != nil || len(raw) != credentialKeySize {
		return nil, errors.New("credential key must be 64 hex characters")
	}
	var key [credentialKeySize]byte
	copy(key[:], raw)
	return &key, nil
}

// sealCredential encrypts plaintext with the instance key. The random nonce
// is prepended to the ciphertext.
func sealCredential(key *[credentialKeySize]byte, plaintext []byte) ([]byte, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, errors.Wrap(err, "failed to generate nonce")
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, key), nil
}

// openCredential decrypts a sealed payload produced by sealCredential.
func openCredential(key *[credentialKeySize]byte, sealed []byte) ([]byte, error) {
	if len(sealed) < 24 {
		return nil, errors.New("sealed payload too short")
	}
	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	plaintext, ok := secretbox.Open(nil, sealed[24:], &nonce, key)
	if !ok {
		return nil, errors.New("failed to open sealed credential")
	}
	return plaintext, nil
}

// UpsertIntegrationCredential seals the plaintext secret and stores it,
// replacing any existing credential for the same (user, provider).
func (s *Store) UpsertIntegrationCredential(ctx context.Context, userID int32, provider string, secret []byte) (*IntegrationCredential, error) {
	if provider == "" {
		return nil, errors.New("provider is required")
	}
	key, err := s.credentialKey()
	if err != nil {
		return nil, err
	}
	sealed, err := sealCredential(key, secret)
	if err != nil {
		return nil, err
	}
	return s.driver.UpsertIntegrationCredential(ctx, &IntegrationCredential{
		UserID:   userID,
		Provider: provider,
		Sealed:   sealed,
	})
}

// OpenIntegrationCredential returns the decrypted secret for one provider,
// or nil when no credential is stored.
func (s *Store) OpenIntegrationCredential(ctx context.Context, userID int32, provider string) ([]byte, error) {
	list, err := s.driver.ListIntegrationCredentials(ctx, &FindIntegrationCredential{
		UserID:   &userID,
		Provider: &provider,
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	key, err := s.credentialKey()
	if err != nil {
		return nil, err
	}
	return openCredential(key, list[0].Sealed)
}

func (s *Store) ListIntegrationCredentials(ctx context.Context, find *FindIntegrationCredential) ([]*IntegrationCredential, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListIntegrationCredentials(ctx, find)
}

func (s *Store) DeleteIntegrationCredential(ctx context.Context, delete *DeleteIntegrationCredential) error {
	return s.driver.DeleteIntegrationCredential(ctx, delete)
}
