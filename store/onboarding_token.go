package store

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
)

// OnboardingToken is an invite-style token that gates contact self-onboarding.
// Uses is incremented atomically by ConsumeOnboardingToken and by the
// composite contact-with-consent write.
type OnboardingToken struct {
	ID        int32
	UserID    int32
	Code      string
	MaxUses   int32
	Uses      int32
	ExpiresTs int64 // zero means no expiry
	CreatedTs int64
}

// FindOnboardingToken is the find condition for onboarding tokens.
type FindOnboardingToken struct {
	ID     *int32
	UserID *int32
	Code   *string
	Limit  *int
	Offset *int
}

// DeleteOnboardingToken is the delete condition for an onboarding token.
type DeleteOnboardingToken struct {
	ID     int32
	UserID int32
}

// ErrTokenExhausted rejects consumption of an expired or fully-used token.
var ErrTokenExhausted = errors.New("onboarding token expired or exhausted")

func (s *Store) CreateOnboardingToken(ctx context.Context, create *OnboardingToken) (*OnboardingToken, error) {
	if create.Code == "" {
		create.Code = shortuuid.New()
	}
	if create.MaxUses <= 0 {
		create.MaxUses = 1
	}
	return s.driver.CreateOnboardingToken(ctx, create)
}

// GetOnboardingToken returns the matching token, or nil when none exists.
func (s *Store) GetOnboardingToken(ctx context.Context, find *FindOnboardingToken) (*OnboardingToken, error) {
	list, err := s.driver.ListOnboardingTokens(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListOnboardingTokens(ctx context.Context, find *FindOnboardingToken) ([]*OnboardingToken, error) {
	normalizePagination(find.Limit, find.Offset)
	return s.driver.ListOnboardingTokens(ctx, find)
}

// ConsumeOnboardingToken increments the use counter, failing with
// ErrTokenExhausted when the token is expired or fully used. The increment is
// a single conditional UPDATE, so concurrent consumers cannot oversubscribe.
func (s *Store) ConsumeOnboardingToken(ctx context.Context, code string, userID int32) (*OnboardingToken, error) {
	return s.driver.ConsumeOnboardingToken(ctx, code, userID)
}

func (s *Store) DeleteOnboardingToken(ctx context.Context, delete *DeleteOnboardingToken) error {
	return s.driver.DeleteOnboardingToken(ctx, delete)
}

// onboardingClaims are the signed claims embedded in shareable token links.
type onboardingClaims struct {
	UserID int32 `json:"uid"`
	jwt.RegisteredClaims
}

// SignOnboardingToken produces a signed JWT wrapping the token code, suitable
// for embedding in a shareable link.
func (s *Store) SignOnboardingToken(token *OnboardingToken) (string, error) {
	if s.profile.TokenSecret == "" {
		return "", errors.New("token secret not configured")
	}
	claims := onboardingClaims{
		UserID: token.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  token.Code,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if token.ExpiresTs > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Unix(token.ExpiresTs, 0))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.profile.TokenSecret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign onboarding token")
	}
	return signed, nil
}

// VerifyOnboardingToken validates a signed token string and returns the
// embedded token code and owning user.
func (s *Store) VerifyOnboardingToken(signed string) (code string, userID int32, err error) {
	if s.profile.TokenSecret == "" {
		return "", 0, errors.New("token secret not configured")
	}
	claims := &onboardingClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.profile.TokenSecret), nil
	})
	if err != nil {
		return "", 0, errors.Wrap(err, "invalid onboarding token")
	}
	return claims.Subject, claims.UserID, nil
}
