package store

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amberhq/amber/internal/profile"
)

// fakeDriver stubs the one driver method under test; everything else panics
// through the embedded nil interface if touched.
type fakeDriver struct {
	Driver
	createContactWithConsent func(ctx context.Context, create *CreateContactWithConsent) (*Contact, error)
	upsertHabitCompletion    func(ctx context.Context, upsert *UpsertHabitCompletion) (*HabitCompletion, error)
}

func (d *fakeDriver) CreateContactWithConsent(ctx context.Context, create *CreateContactWithConsent) (*Contact, error) {
	return d.createContactWithConsent(ctx, create)
}

func (d *fakeDriver) UpsertHabitCompletion(ctx context.Context, upsert *UpsertHabitCompletion) (*HabitCompletion, error) {
	return d.upsertHabitCompletion(ctx, upsert)
}

func TestCreateContactWithConsent_Validation(t *testing.T) {
	s := New(&fakeDriver{}, &profile.Profile{})

	tests := []struct {
		name   string
		create *CreateContactWithConsent
	}{
		{"missing contact", &CreateContactWithConsent{Consent: &Consent{Scope: "contact_info"}, TokenCode: "abc"}},
		{"missing consent", &CreateContactWithConsent{Contact: &Contact{DisplayName: "Ada"}, TokenCode: "abc"}},
		{"missing token code", &CreateContactWithConsent{Contact: &Contact{DisplayName: "Ada"}, Consent: &Consent{Scope: "contact_info"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateContactWithConsent(context.Background(), tt.create)
			require.Error(t, err)
		})
	}
}

func TestCreateContactWithConsent_FillsUIDs(t *testing.T) {
	var captured *CreateContactWithConsent
	driver := &fakeDriver{
		createContactWithConsent: func(_ context.Context, create *CreateContactWithConsent) (*Contact, error) {
			captured = create
			return create.Contact, nil
		},
	}
	s := New(driver, &profile.Profile{})

	_, err := s.CreateContactWithConsent(context.Background(), &CreateContactWithConsent{
		Contact:    &Contact{UserID: 1, DisplayName: "Ada"},
		Attachment: &Attachment{UserID: 1, Filename: "card.png"},
		Consent:    &Consent{UserID: 1, Scope: "contact_info"},
		TokenCode:  "abc",
	})

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.NotEmpty(t, captured.Contact.UID)
	assert.NotEmpty(t, captured.Attachment.UID)
}

func TestCreateContactWithConsent_TokenExhaustedSurfaced(t *testing.T) {
	driver := &fakeDriver{
		createContactWithConsent: func(context.Context, *CreateContactWithConsent) (*Contact, error) {
			// The driver rolled its transaction back; nothing was written.
			return nil, ErrTokenExhausted
		},
	}
	s := New(driver, &profile.Profile{})

	_, err := s.CreateContactWithConsent(context.Background(), &CreateContactWithConsent{
		Contact:   &Contact{UserID: 1, DisplayName: "Ada"},
		Consent:   &Consent{UserID: 1, Scope: "contact_info"},
		TokenCode: "used-up",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTokenExhausted))
}

func TestUpsertHabitCompletion_RejectsBadDate(t *testing.T) {
	s := New(&fakeDriver{}, &profile.Profile{})

	tests := []string{"", "2024-13-01", "01/02/2024", "yesterday"}
	for _, date := range tests {
		t.Run(date, func(t *testing.T) {
			_, err := s.UpsertHabitCompletion(context.Background(), &UpsertHabitCompletion{
				UserID: 1, HabitID: 1, Date: date,
			})
			require.Error(t, err)
		})
	}
}

func TestUpsertHabitCompletion_PassesValidDate(t *testing.T) {
	driver := &fakeDriver{
		upsertHabitCompletion: func(_ context.Context, upsert *UpsertHabitCompletion) (*HabitCompletion, error) {
			return &HabitCompletion{UserID: upsert.UserID, HabitID: upsert.HabitID, Date: upsert.Date}, nil
		},
	}
	s := New(driver, &profile.Profile{})

	completion, err := s.UpsertHabitCompletion(context.Background(), &UpsertHabitCompletion{
		UserID: 1, HabitID: 1, Date: "2024-01-03",
	})

	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", completion.Date)
}
