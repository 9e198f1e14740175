package sqlite

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amberhq/amber/store"
)

func onboardingWrite(userID int32, code string) *store.CreateContactWithConsent {
	return &store.CreateContactWithConsent{
		Contact: &store.Contact{UID: "contact-uid", UserID: userID, DisplayName: "Ada Lovelace"},
		Attachment: &store.Attachment{
			UID: "attachment-uid", UserID: userID, Filename: "card.png", Type: "image/png", Size: 3, Blob: []byte{1, 2, 3},
		},
		Consent:   &store.Consent{UserID: userID, Scope: "contact_info", Source: "onboarding_form"},
		TokenCode: code,
	}
}

func TestCreateContactWithConsent_Commits(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)
	userID := int32(1)

	token, err := driver.CreateOnboardingToken(ctx, &store.OnboardingToken{
		UserID: userID, Code: "invite", MaxUses: 2,
	})
	require.NoError(t, err)

	contact, err := driver.CreateContactWithConsent(ctx, onboardingWrite(userID, token.Code))
	require.NoError(t, err)
	require.NotZero(t, contact.ID)

	consents, err := driver.ListConsents(ctx, &store.FindConsent{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, consents, 1)
	assert.Equal(t, contact.ID, consents[0].ContactID)

	attachments, err := driver.ListAttachments(ctx, &store.FindAttachment{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, attachments, 1)

	tokens, err := driver.ListOnboardingTokens(ctx, &store.FindOnboardingToken{Code: &token.Code})
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, int32(1), tokens[0].Uses)
}

func TestCreateContactWithConsent_ExhaustedTokenRollsBack(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)
	userID := int32(1)

	// Already at its use cap: the token increment is the last step of the
	// transaction, so its failure must undo the earlier inserts.
	token, err := driver.CreateOnboardingToken(ctx, &store.OnboardingToken{
		UserID: userID, Code: "spent", MaxUses: 1, Uses: 1,
	})
	require.NoError(t, err)

	_, err = driver.CreateContactWithConsent(ctx, onboardingWrite(userID, token.Code))
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrTokenExhausted))

	contacts, err := driver.ListContacts(ctx, &store.FindContact{UserID: &userID})
	require.NoError(t, err)
	assert.Empty(t, contacts, "contact insert must not survive the rollback")

	consents, err := driver.ListConsents(ctx, &store.FindConsent{UserID: &userID})
	require.NoError(t, err)
	assert.Empty(t, consents)

	attachments, err := driver.ListAttachments(ctx, &store.FindAttachment{UserID: &userID})
	require.NoError(t, err)
	assert.Empty(t, attachments)

	tokens, err := driver.ListOnboardingTokens(ctx, &store.FindOnboardingToken{Code: &token.Code})
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, int32(1), tokens[0].Uses, "use counter unchanged")
}

func TestCreateContactWithConsent_UnknownTokenRollsBack(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)
	userID := int32(1)

	_, err := driver.CreateContactWithConsent(ctx, onboardingWrite(userID, "no-such-code"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrTokenExhausted))

	contacts, err := driver.ListContacts(ctx, &store.FindContact{UserID: &userID})
	require.NoError(t, err)
	assert.Empty(t, contacts)
}
