package identity

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Static presents a fixed ID token, it is rejected locally once its exp claim has passed.
//
// The signature is not verified, the backend does that.
type Static struct {
	token   string
	subject string
	expiry  time.Time
}

// NewStatic returns a Static identity for a JWT.
func NewStatic(token string) (*Static, error) {
	claims := jwt.RegisteredClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, errors.Wrap(ErrToken, err.Error())
	}

	s := &Static{token: token, subject: claims.Subject}

	if claims.ExpiresAt != nil {
		s.expiry = claims.ExpiresAt.Time
	}

	return s, nil
}

func (s *Static) Name() string {
	return "static"
}

// Subject returns the sub claim of the token.
func (s *Static) Subject() string {
	return s.subject
}

func (s *Static) Token(_ context.Context) (string, error) {
	if !s.expiry.IsZero() && time.Now().After(s.expiry) {
		return "", errors.Wrap(ErrTokenExpired, "at "+s.expiry.Format(time.RFC3339))
	}

	return s.token, nil
}
