package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/Felixhuangsiling/front-pfee/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -package fixtures -destination ../fixtures/mock_identity.go . Identity

// Identity resolves the bearer token of the signed in principal.
type Identity interface {
	// Name identifies the identity kind in logs and metrics.
	Name() string
	Token(ctx context.Context) (string, error)
}

// Getter returns the current backend client, operations resolve it on every call
// so a Reset is picked up.
type Getter interface {
	Client() *Client
}

// Provider holds the process wide backend client.
//
// The client is created lazily, identity interceptors attached to it are dropped by Reset.
type Provider struct {
	opts Options

	mu     sync.Mutex
	client *Client
}

// NewProvider validates the endpoint and returns a Provider,
// the client itself is created on first use.
func NewProvider(opts Options) (*Provider, error) {
	if _, err := parseEndpoint(opts.Endpoint); err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}

	return &Provider{opts: opts}, nil
}

// Client returns the shared backend client, creating it on the first call.
func (p *Provider) Client() *Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		// the endpoint was validated in NewProvider
		baseURL, _ := parseEndpoint(p.opts.Endpoint)
		p.client = newClient(p.opts, baseURL)
	}

	return p.client
}

// AttachIdentity installs an interceptor on the shared client that sets
// the Authorization header on requests carrying credentials.
//
// A failure to resolve the token is logged and the request proceeds without the header.
func (p *Provider) AttachIdentity(identity Identity) {
	if identity == nil {
		return
	}

	logger := p.opts.Logger

	p.Client().Use(func(req *http.Request) {
		if !CarriesCredentials(req.Context()) {
			return
		}

		token, err := identity.Token(req.Context())
		if err != nil {
			metrics.IdentityTokenErrorCount.With(prometheus.Labels{"identity": identity.Name()}).Inc()

			logger.WithFields(logrus.Fields{
				"identity": identity.Name(),
				"url":      req.URL.String(),
				"err":      err.Error(),
			}).Warn("bearer token unavailable, request sent without Authorization header")

			return
		}

		if token == "" {
			return
		}

		req.Header.Set("Authorization", "Bearer "+token)
	})
}

// Reset discards the shared client, the next call to Client returns a fresh client
// with no interceptors installed.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.client = nil
}
