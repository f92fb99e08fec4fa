package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twitch-stream-lookup/apierror"
	"twitch-stream-lookup/config"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc, opts ...Option) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewProvider(config.TwitchConfig{
		ClientID:     " client-id ",
		ClientSecret: "client-secret",
		AuthURL:      srv.URL + "/oauth2/token",
		HTTPTimeout:  time.Second,
	}, opts...)
}

func TestTokenExchangesClientCredentials(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth2/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		fmt.Fprint(w, `{"access_token":"xyz789","expires_in":3600,"token_type":"bearer"}`)
	})

	token, err := provider.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "xyz789", token.Access())
	assert.Equal(t, "bearer", token.Kind())
	assert.Equal(t, time.Hour, token.ExpiresIn())

	shown := fmt.Sprint(token)
	assert.True(t, strings.HasSuffix(shown, "789"))
	assert.NotContains(t, shown, "xyz789")
}

func TestTokenFailsOnUnauthorized(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status":401,"message":"invalid client secret"}`)
	})

	token, err := provider.Token(context.Background())
	require.Error(t, err)
	assert.True(t, apierror.IsAuthenticationError(err))
	assert.Contains(t, err.Error(), "invalid client secret")
	assert.Empty(t, token.Access())
}

func TestTokenFailsOnIncompleteResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing access_token", `{"expires_in":3600,"token_type":"bearer"}`},
		{"missing expires_in", `{"access_token":"abc123","token_type":"bearer"}`},
		{"missing token_type", `{"access_token":"abc123","expires_in":3600}`},
		{"empty access_token", `{"access_token":"","expires_in":3600,"token_type":"bearer"}`},
		{"not json", `<html>oops</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, tt.body)
			})

			_, err := provider.Token(context.Background())
			require.Error(t, err)
			assert.True(t, apierror.IsAuthenticationError(err))
		})
	}
}

func TestTokenReportsTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	provider := NewProvider(config.TwitchConfig{ClientID: "id", ClientSecret: "secret", AuthURL: url, HTTPTimeout: time.Second})

	_, err := provider.Token(context.Background())
	require.Error(t, err)
	assert.True(t, apierror.IsTransportError(err))
}

type recordingTracer struct {
	status int
	body   string
	err    error
}

func (r *recordingTracer) TraceAuthResponse(status int, body []byte) error {
	r.status = status
	r.body = string(body)
	return r.err
}

func TestTokenTracesResponseWhenEnabled(t *testing.T) {
	tracer := &recordingTracer{}
	provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"status":400,"message":"invalid client"}`)
	}, WithTracer(tracer))

	_, err := provider.Token(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, tracer.status)
	assert.Contains(t, tracer.body, "invalid client")
}

func TestTokenIgnoresTracerFailure(t *testing.T) {
	tracer := &recordingTracer{err: fmt.Errorf("disk full")}
	provider := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"access_token":"abc123","expires_in":60,"token_type":"bearer"}`)
	}, WithTracer(tracer))

	_, err := provider.Token(context.Background())
	require.NoError(t, err)
}
