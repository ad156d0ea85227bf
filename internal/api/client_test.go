package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxemart/storefront/pkg/config"
	pkgerrors "github.com/luxemart/storefront/pkg/errors"
)

type staticTokens struct {
	token string
}

func (s *staticTokens) Token() string { return s.token }

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.APIConfig{BaseURL: srv.URL}, tokens, nil)
}

func TestClientAttachesBearerWhenTokenSet(t *testing.T) {
	t.Parallel()

	var gotAuth, gotRequestID string
	r := chi.NewRouter()
	r.Get("/api/orders", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		gotRequestID = req.Header.Get("X-Request-Id")
		w.Write([]byte(`[]`))
	})

	client := newTestClient(t, r, &staticTokens{token: "tok-123"})
	var out []any
	require.NoError(t, client.Get(context.Background(), "/api/orders", &out))

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClientSendsUnauthenticatedWhenNoToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	r := chi.NewRouter()
	r.Get("/api/products", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})

	client := newTestClient(t, r, &staticTokens{})
	var out map[string]any
	require.NoError(t, client.Get(context.Background(), "/api/products", &out))
	assert.Empty(t, gotAuth)
}

func TestClientRereadsTokenPerRequest(t *testing.T) {
	t.Parallel()

	var auths []string
	r := chi.NewRouter()
	r.Get("/ping", func(w http.ResponseWriter, req *http.Request) {
		auths = append(auths, req.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	})

	tokens := &staticTokens{}
	client := newTestClient(t, r, tokens)

	require.NoError(t, client.Get(context.Background(), "/ping", nil))
	tokens.token = "fresh"
	require.NoError(t, client.Get(context.Background(), "/ping", nil))

	require.Len(t, auths, 2)
	assert.Empty(t, auths[0])
	assert.Equal(t, "Bearer fresh", auths[1])
}

func TestClientSurfacesServerMessageVerbatim(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Post("/api/orders", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"insufficient stock for Shoe"}`))
	})

	client := newTestClient(t, r, nil)
	err := client.Post(context.Background(), "/api/orders", map[string]any{}, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeRequestRejected))
	assert.Equal(t, "insufficient stock for Shoe", pkgerrors.UserMessage(err))
}

func TestClientFallsBackToMessageField(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Get("/x", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"admins only"}`))
	})

	client := newTestClient(t, r, nil)
	err := client.Get(context.Background(), "/x", nil)
	require.Error(t, err)
	assert.Equal(t, "admins only", pkgerrors.UserMessage(err))
}

func TestClientGenericMessageOnUnparseableBody(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Get("/x", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>upstream sad</html>`))
	})

	client := newTestClient(t, r, nil)
	err := client.Get(context.Background(), "/x", nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeRequestRejected))
	assert.Equal(t, "request failed with status 502", pkgerrors.UserMessage(err))
}

func TestClientMapsTransportFailureToNetworkUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewClient(config.APIConfig{BaseURL: srv.URL}, nil, nil)
	err := client.Get(context.Background(), "/api/products", nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNetworkUnreachable))
}

func TestClientHonorsConfiguredTimeout(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Get("/slow", func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-req.Context().Done():
		}
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client := NewClient(config.APIConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil, nil)
	start := time.Now()
	err := client.Get(context.Background(), "/slow", nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNetworkUnreachable))
	assert.Less(t, time.Since(start), time.Second)
}
