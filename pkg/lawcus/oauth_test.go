package lawcus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/ethanbaker/lawcus-relay/pkg/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = Credentials{
	ClientID:     "client-id",
	ClientSecret: "client-secret",
	RedirectURI:  "https://relay.example/oauth",
}

// newTokenServer fakes the Lawcus token endpoint. Every request body is
// decoded into the returned channel.
func newTokenServer(t *testing.T, status int, response string) (*httptest.Server, chan map[string]string) {
	t.Helper()

	requests := make(chan map[string]string, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth/token", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests <- body

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return srv, requests
}

func TestBuildAuthorizationURL(t *testing.T) {
	raw := BuildAuthorizationURL("CID", "https://cb.example/x")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "auth.lawcus.com", u.Host)
	assert.Equal(t, "/auth", u.Path)

	query := u.Query()
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "CID", query.Get("client_id"))
	assert.Equal(t, "https://cb.example/x", query.Get("redirect_uri"))
	assert.True(t, query.Has("scope"))
	assert.Empty(t, query.Get("scope"))
	assert.True(t, query.Has("state"))
	assert.Empty(t, query.Get("state"))

	// The redirect URI is percent-encoded in the raw string
	assert.Contains(t, raw, "redirect_uri=https%3A%2F%2Fcb.example%2Fx")
}

func TestOAuthClientAuthorizationURL(t *testing.T) {
	client := NewOAuthClient(testCreds, &Options{AuthBaseURL: "http://auth.local/"})

	u, err := url.Parse(client.AuthorizationURL())
	require.NoError(t, err)
	assert.Equal(t, "auth.local", u.Host)
	assert.Equal(t, "/auth", u.Path)
	assert.Equal(t, testCreds.ClientID, u.Query().Get("client_id"))
	assert.Equal(t, testCreds.RedirectURI, u.Query().Get("redirect_uri"))
}

func TestExchange(t *testing.T) {
	srv, requests := newTokenServer(t, http.StatusOK,
		`{"access_token":"access-1","refresh_token":"refresh-1","token_type":"bearer","expires_in":3600,"scope":"all"}`)
	client := NewOAuthClient(testCreds, &Options{AuthBaseURL: srv.URL})

	resp, err := client.Exchange(context.Background(), "the-code")
	require.NoError(t, err)

	body := <-requests
	assert.Equal(t, map[string]string{
		"grant_type":    "authorization_code",
		"code":          "the-code",
		"client_id":     "client-id",
		"client_secret": "client-secret",
		"redirect_uri":  "https://relay.example/oauth",
	}, body)

	assert.Equal(t, tokens.Pair{AccessToken: "access-1", RefreshToken: "refresh-1"}, resp.Pair())
	assert.Equal(t, "all", resp.Raw["scope"])
	assert.Equal(t, "all", resp.Token.Extra("scope"))
	assert.False(t, resp.Token.Expiry.IsZero())
}

func TestExchangeUpstreamError(t *testing.T) {
	srv, _ := newTokenServer(t, http.StatusBadRequest,
		`{"error":"invalid_grant","error_description":"Authorization code expired"}`)
	client := NewOAuthClient(testCreds, &Options{AuthBaseURL: srv.URL})

	_, err := client.Exchange(context.Background(), "stale")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadRequest, upstream.Status)
	assert.Equal(t, "Authorization code expired", upstream.Message)
}

func TestExchangeMissingAccessToken(t *testing.T) {
	srv, _ := newTokenServer(t, http.StatusOK, `{"refresh_token":"r"}`)
	client := NewOAuthClient(testCreds, &Options{AuthBaseURL: srv.URL})

	_, err := client.Exchange(context.Background(), "code")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.Status)
}

func TestExchangeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewOAuthClient(testCreds, &Options{AuthBaseURL: srv.URL})

	_, err := client.Exchange(context.Background(), "code")

	var transport *TransportError
	require.ErrorAs(t, err, &transport)

	status, message := StatusAndMessage(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal Server Error", message)
}

func TestRefresh(t *testing.T) {
	srv, requests := newTokenServer(t, http.StatusOK,
		`{"access_token":"access-2","refresh_token":"refresh-2","expires_in":"3600"}`)
	client := NewOAuthClient(testCreds, &Options{AuthBaseURL: srv.URL})

	resp, err := client.Refresh(context.Background(), "refresh-1")
	require.NoError(t, err)

	body := <-requests
	assert.Equal(t, "refresh_token", body["grant_type"])
	assert.Equal(t, "refresh-1", body["refresh_token"])
	assert.Equal(t, "client-id", body["client_id"])
	assert.Equal(t, "client-secret", body["client_secret"])
	assert.Equal(t, "https://relay.example/oauth", body["redirect_uri"])
	assert.NotContains(t, body, "code")

	assert.Equal(t, tokens.Pair{AccessToken: "access-2", RefreshToken: "refresh-2"}, resp.Pair())
}

func TestRefreshUnauthorized(t *testing.T) {
	srv, _ := newTokenServer(t, http.StatusUnauthorized, `not json`)
	client := NewOAuthClient(testCreds, &Options{AuthBaseURL: srv.URL})

	_, err := client.Refresh(context.Background(), "revoked")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnauthorized, upstream.Status)
	assert.Equal(t, "Unauthorized", upstream.Message)
}

func TestRefreshWithoutTokenSkipsUpstream(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := NewOAuthClient(testCreds, &Options{AuthBaseURL: srv.URL})
	_, err := client.Refresh(context.Background(), "")

	assert.ErrorIs(t, err, ErrNoRefreshToken)
	assert.ErrorIs(t, err, tokens.ErrMissingCredential)
	assert.Zero(t, calls.Load())

	status, _ := StatusAndMessage(err)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestExchangeKeepsBodyVerbatim(t *testing.T) {
	response := `{"access_token":"a","refresh_token":"r","user_id":9007199254740993,"account":12345678901234567890}`
	srv, _ := newTokenServer(t, http.StatusOK, response)
	client := NewOAuthClient(testCreds, &Options{AuthBaseURL: srv.URL})

	resp, err := client.Exchange(context.Background(), "code")
	require.NoError(t, err)

	assert.Equal(t, response, string(resp.Body))
	assert.Equal(t, json.Number("9007199254740993"), resp.Raw["user_id"])
	assert.Equal(t, json.Number("12345678901234567890"), resp.Token.Extra("account"))
}

func TestExpiresIn(t *testing.T) {
	tests := []struct {
		name      string
		expiresIn string
		hasExpiry bool
	}{
		{"number", `3600`, true},
		{"numeric string", `"3600"`, true},
		{"text", `"soon"`, false},
		{"zero", `0`, false},
		{"fraction", `1.5`, false},
		{"null", `null`, false},
		{"object", `{"seconds":3600}`, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv, _ := newTokenServer(t, http.StatusOK, `{"access_token":"a","refresh_token":"r","expires_in":`+test.expiresIn+`}`)
			client := NewOAuthClient(testCreds, &Options{AuthBaseURL: srv.URL})

			resp, err := client.Exchange(context.Background(), "code")
			require.NoError(t, err)
			assert.Equal(t, test.hasExpiry, !resp.Token.Expiry.IsZero())
			assert.Equal(t, "a", resp.Token.AccessToken)
		})
	}
}
