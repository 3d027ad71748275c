// Package identity resolves bearer tokens for requests to the backend.
package identity

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

var (
	ErrToken        = errors.New("error resolving token")
	ErrTokenExpired = errors.New("token expired")
	ErrNoToken      = errors.New("no token in response")
)

// TokenSource is an identity backed by an oauth2.TokenSource.
type TokenSource struct {
	name  string
	src   oauth2.TokenSource
	field string
}

// FromTokenSource returns an identity that presents the access token of src.
func FromTokenSource(name string, src oauth2.TokenSource) *TokenSource {
	return &TokenSource{name: name, src: oauth2.ReuseTokenSource(nil, src)}
}

func (t *TokenSource) Name() string {
	return t.name
}

// Token returns the current token, refreshing it when it has expired.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tok, err := t.src.Token()
	if err != nil {
		return "", errors.Wrap(ErrToken, err.Error())
	}

	if t.field == "" {
		return tok.AccessToken, nil
	}

	v, _ := tok.Extra(t.field).(string)
	if v == "" {
		return "", errors.Wrap(ErrNoToken, t.field)
	}

	return v, nil
}
