package identity

import (
	"context"
	"net/url"

	"github.com/coreos/go-oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentialsOptions configures a service account identity.
type ClientCredentialsOptions struct {
	IssuerEndpoint   string
	AudienceEndpoint string
	ClientID         string
	ClientSecret     string
	Scopes           []string
}

// NewClientCredentials returns an identity for non interactive use,
// the token endpoint is discovered from the OIDC issuer.
func NewClientCredentials(ctx context.Context, opts *ClientCredentialsOptions) (*TokenSource, error) {
	provider, err := oidc.NewProvider(ctx, opts.IssuerEndpoint)
	if err != nil {
		return nil, errors.Wrap(ErrToken, "oidc discovery: "+err.Error())
	}

	conf := clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     provider.Endpoint().TokenURL,
		Scopes:       opts.Scopes,
	}

	if opts.AudienceEndpoint != "" {
		conf.EndpointParams = url.Values{"audience": []string{opts.AudienceEndpoint}}
	}

	return FromTokenSource("client-credentials", conf.TokenSource(ctx)), nil
}
