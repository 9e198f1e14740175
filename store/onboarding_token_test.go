package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amberhq/amber/internal/profile"
)

func TestSignAndVerifyOnboardingToken(t *testing.T) {
	s := New(nil, &profile.Profile{TokenSecret: "test-secret"})
	token := &OnboardingToken{UserID: 7, Code: "abc123", MaxUses: 3}

	signed, err := s.SignOnboardingToken(token)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	code, userID, err := s.VerifyOnboardingToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "abc123", code)
	assert.Equal(t, int32(7), userID)
}

func TestVerifyOnboardingToken_WrongSecret(t *testing.T) {
	signer := New(nil, &profile.Profile{TokenSecret: "secret-a"})
	verifier := New(nil, &profile.Profile{TokenSecret: "secret-b"})

	signed, err := signer.SignOnboardingToken(&OnboardingToken{UserID: 1, Code: "abc"})
	require.NoError(t, err)

	_, _, err = verifier.VerifyOnboardingToken(signed)
	require.Error(t, err)
}

func TestVerifyOnboardingToken_Garbage(t *testing.T) {
	s := New(nil, &profile.Profile{TokenSecret: "test-secret"})

	_, _, err := s.VerifyOnboardingToken("not.a.token")
	require.Error(t, err)
}

func TestSignOnboardingToken_NoSecret(t *testing.T) {
	s := New(nil, &profile.Profile{})

	_, err := s.SignOnboardingToken(&OnboardingToken{UserID: 1, Code: "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token secret not configured")
}
