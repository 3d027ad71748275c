package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Felixhuangsiling/front-pfee/internal/fixtures"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type echo struct {
	Method        string `json:"method"`
	Path          string `json:"path"`
	Query         string `json:"query"`
	Authorization string `json:"authorization"`
	ContentType   string `json:"contentType"`
}

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"boom"}`))

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(echo{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
		})
	}))

	t.Cleanup(server.Close)

	return server
}

func newTestProvider(t *testing.T, endpoint string) *Provider {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	p, err := NewProvider(Options{Endpoint: endpoint, Logger: logger})
	require.Nil(t, err)

	return p
}

func TestNewProviderEndpoint(t *testing.T) {
	_, err := NewProvider(Options{Endpoint: "localhost:8080"})
	assert.ErrorIs(t, err, ErrEndpoint)

	p, err := NewProvider(Options{})
	require.Nil(t, err)
	assert.Equal(t, DefaultEndpoint, p.Client().BaseURL())
}

func TestProviderClientShared(t *testing.T) {
	p := newTestProvider(t, "http://localhost:8080")

	first := p.Client()
	assert.Same(t, first, p.Client())

	p.Reset()
	assert.NotSame(t, first, p.Client())
}

func TestClientURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		path     string
		query    url.Values
		want     string
	}{
		{"relative path", "http://localhost:8080", "equipment/all", nil, "http://localhost:8080/equipment/all"},
		{"leading slash", "http://localhost:8080", "/equipment", nil, "http://localhost:8080/equipment"},
		{"base with path", "http://api.local/v1/", "/users", nil, "http://api.local/v1/users"},
		{
			"query",
			"http://localhost:8080",
			"equipment",
			url.Values{"page": {"0"}, "size": {"10"}},
			"http://localhost:8080/equipment?page=0&size=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(Options{Endpoint: tt.endpoint})
			require.Nil(t, err)

			assert.Equal(t, tt.want, c.URL(tt.path, tt.query))
		})
	}
}

func TestClientDo(t *testing.T) {
	server := newEchoServer(t)
	c := newTestProvider(t, server.URL).Client()

	var got echo

	err := c.Do(
		context.Background(),
		http.MethodPost,
		"equipment",
		map[string]string{"name": "b1"},
		&got,
		WithQuery(url.Values{"topic": {"stat/b1/STATUS8"}}),
	)
	require.Nil(t, err)

	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/equipment", got.Path)
	assert.Equal(t, "topic=stat%2Fb1%2FSTATUS8", got.Query)
	assert.Equal(t, "application/json", got.ContentType)
	assert.Empty(t, got.Authorization)
}

func TestClientDoResponseError(t *testing.T) {
	server := newEchoServer(t)
	c := newTestProvider(t, server.URL).Client()

	err := c.Do(context.Background(), http.MethodGet, "fail", nil, nil)
	require.NotNil(t, err)

	var respErr *ResponseError

	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusInternalServerError, respErr.StatusCode)
	assert.Equal(t, `{"message":"boom"}`, string(respErr.Body))
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	assert.Equal(t, "request failed with status code 500", err.Error())
}

func TestClientDoTransportError(t *testing.T) {
	server := newEchoServer(t)
	endpoint := server.URL
	server.Close()

	c := newTestProvider(t, endpoint).Client()

	err := c.Do(context.Background(), http.MethodGet, "equipment", nil, nil)
	assert.ErrorIs(t, err, ErrRequest)
}

func TestAttachIdentity(t *testing.T) {
	server := newEchoServer(t)

	t.Run("token set on requests carrying credentials", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		identity := fixtures.NewMockIdentity(ctrl)
		identity.EXPECT().Token(gomock.Any()).Times(1).Return("t0k3n", nil)

		p := newTestProvider(t, server.URL)
		p.AttachIdentity(identity)

		var got echo

		require.Nil(t, p.Client().Do(context.Background(), http.MethodGet, "users", nil, &got))
		assert.Equal(t, "Bearer t0k3n", got.Authorization)
	})

	t.Run("requests without credentials are untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		identity := fixtures.NewMockIdentity(ctrl)

		p := newTestProvider(t, server.URL)
		p.AttachIdentity(identity)

		var got echo

		require.Nil(t, p.Client().Do(context.Background(), http.MethodGet, "users", nil, &got, WithoutCredentials()))
		assert.Empty(t, got.Authorization)
	})

	t.Run("token failure proceeds without header", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		identity := fixtures.NewMockIdentity(ctrl)
		identity.EXPECT().Token(gomock.Any()).Times(1).Return("", errors.New("signed out"))
		identity.EXPECT().Name().AnyTimes().Return("mock")

		p := newTestProvider(t, server.URL)
		p.AttachIdentity(identity)

		var got echo

		require.Nil(t, p.Client().Do(context.Background(), http.MethodGet, "users", nil, &got))
		assert.Empty(t, got.Authorization)
	})

	t.Run("reset drops the interceptor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		identity := fixtures.NewMockIdentity(ctrl)

		p := newTestProvider(t, server.URL)
		p.AttachIdentity(identity)
		p.Reset()

		var got echo

		require.Nil(t, p.Client().Do(context.Background(), http.MethodGet, "users", nil, &got))
		assert.Empty(t, got.Authorization)
	})
}

func TestClientStream(t *testing.T) {
	lastEventID := make(chan string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastEventID <- r.Header.Get("Last-Event-ID")

		if r.Header.Get("Accept") != "text/event-stream" {
			w.WriteHeader(http.StatusNotAcceptable)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: hello\n\n"))
	}))
	defer server.Close()

	c := newTestProvider(t, server.URL).Client()

	resp, err := c.Stream(context.Background(), "mqtt/data/stream", url.Values{"topic": {"b1"}}, http.Header{"Last-Event-ID": {"41"}})
	require.Nil(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "41", <-lastEventID)
}

func TestAttachNilIdentity(t *testing.T) {
	server := newEchoServer(t)
	p := newTestProvider(t, server.URL)

	p.AttachIdentity(nil)
	assert.Empty(t, p.Client().snapshotInterceptors())
}
