package identity

import (
	"context"
	"net/url"

	"golang.org/x/oauth2"
)

const (
	// SecureTokenEndpoint exchanges a Firebase refresh token for an ID token.
	SecureTokenEndpoint = "https://securetoken.googleapis.com/v1/token"

	idTokenField = "id_token"
)

// NewFirebase returns an identity presenting the Firebase ID token of a signed in user,
// the ID token is refreshed with the refresh token when it expires.
func NewFirebase(ctx context.Context, endpoint, apiKey, refreshToken string) *TokenSource {
	if endpoint == "" {
		endpoint = SecureTokenEndpoint
	}

	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  endpoint + "?" + url.Values{"key": {apiKey}}.Encode(),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	return &TokenSource{
		name:  "firebase",
		src:   conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}),
		field: idTokenField,
	}
}
