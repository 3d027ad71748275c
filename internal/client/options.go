package client

import (
	"context"
	"net/url"
)

type credentialsKey struct{}

type requestOptions struct {
	credentials bool
	query       url.Values
}

// RequestOption customizes a single request sent with Client.Do.
type RequestOption func(*requestOptions)

// WithoutCredentials marks the request as not carrying credentials,
// the identity interceptor leaves it untouched.
func WithoutCredentials() RequestOption {
	return func(o *requestOptions) {
		o.credentials = false
	}
}

// WithQuery sets the request query string.
func WithQuery(q url.Values) RequestOption {
	return func(o *requestOptions) {
		o.query = q
	}
}

func newRequestOptions(opts []RequestOption) *requestOptions {
	ro := &requestOptions{credentials: true}

	for _, opt := range opts {
		opt(ro)
	}

	return ro
}

func withCredentials(ctx context.Context, credentials bool) context.Context {
	return context.WithValue(ctx, credentialsKey{}, credentials)
}

// CarriesCredentials returns true when the request context was not marked with WithoutCredentials.
func CarriesCredentials(ctx context.Context) bool {
	v, ok := ctx.Value(credentialsKey{}).(bool)
	if !ok {
		return false
	}

	return v
}
