package lawcus

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethanbaker/lawcus-relay/pkg/tokens"
	"golang.org/x/oauth2"
)

// Credentials identify this relay to the Lawcus authorization server
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// TokenResponse is a successful answer from the token endpoint
type TokenResponse struct {
	Token *oauth2.Token

	// Body is the provider's JSON answer, byte for byte
	Body json.RawMessage

	// Raw holds every field the provider returned, numbers as json.Number
	Raw map[string]any
}

// Pair projects the response onto the persisted token pair
func (r *TokenResponse) Pair() tokens.Pair {
	return tokens.Pair{
		AccessToken:  r.Token.AccessToken,
		RefreshToken: r.Token.RefreshToken,
	}
}

// OAuthClient runs the authorization-code and refresh flows against Lawcus
type OAuthClient struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewOAuthClient creates a client for the given credentials
func NewOAuthClient(creds Credentials, opts *Options) *OAuthClient {
	o := opts.withDefaults()

	return &OAuthClient{
		config:     newConfig(o.AuthBaseURL, creds),
		httpClient: o.HTTPClient,
	}
}

func newConfig(baseURL string, creds Credentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:   baseURL + authPath,
			TokenURL:  baseURL + tokenPath,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// authCodeURL always sends scope and state, empty, as Lawcus expects
func authCodeURL(config *oauth2.Config) string {
	return config.AuthCodeURL("",
		oauth2.SetAuthURLParam("scope", ""),
		oauth2.SetAuthURLParam("state", ""),
	)
}

// BuildAuthorizationURL returns the Lawcus consent page URL for clientID
func BuildAuthorizationURL(clientID, redirectURI string) string {
	return authCodeURL(newConfig(AuthBaseURL, Credentials{ClientID: clientID, RedirectURI: redirectURI}))
}

// AuthorizationURL returns the consent page URL for this client
func (c *OAuthClient) AuthorizationURL() string {
	return authCodeURL(c.config)
}

// tokenRequest is the JSON body sent to the token endpoint
type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri"`
}

// Exchange trades an authorization code for a token pair
func (c *OAuthClient) Exchange(ctx context.Context, code string) (*TokenResponse, error) {
	return c.requestToken(ctx, &tokenRequest{
		GrantType:    "authorization_code",
		Code:         code,
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		RedirectURI:  c.config.RedirectURL,
	})
}

// Refresh trades a refresh token for a new token pair
func (c *OAuthClient) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	return c.requestToken(ctx, &tokenRequest{
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		RedirectURI:  c.config.RedirectURL,
	})
}

// requestToken posts one grant to the token endpoint
func (c *OAuthClient) requestToken(ctx context.Context, in *tokenRequest) (*TokenResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint.TokenURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	return parseTokenResponse(data)
}

// parseTokenResponse decodes a 200 body into a typed token plus raw fields
func parseTokenResponse(data []byte) (*TokenResponse, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return nil, &UpstreamError{Status: http.StatusBadGateway, Message: "Invalid token response from provider", Err: err}
	}

	accessToken, _ := raw["access_token"].(string)
	if accessToken == "" {
		return nil, &UpstreamError{Status: http.StatusBadGateway, Message: "Token response did not include an access token"}
	}

	refreshToken, _ := raw["refresh_token"].(string)
	tokenType, _ := raw["token_type"].(string)

	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenType,
	}
	if seconds, ok := expiresIn(raw["expires_in"]); ok {
		token.Expiry = time.Now().Add(time.Duration(seconds) * time.Second)
	}

	return &TokenResponse{
		Token: token.WithExtra(raw),
		Body:  json.RawMessage(data),
		Raw:   raw,
	}, nil
}

// expiresIn reads a lifetime sent either as a number or a numeric string.
// Anything else is ignored and leaves the token without an expiry.
func expiresIn(value any) (int64, bool) {
	var text string
	switch v := value.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = v
	default:
		return 0, false
	}

	seconds, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || seconds <= 0 {
		return 0, false
	}
	return seconds, true
}

// errorMessage picks a human readable message out of an OAuth error body
func errorMessage(status int, data []byte) string {
	var body struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Message          string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		switch {
		case body.ErrorDescription != "":
			return body.ErrorDescription
		case body.Message != "":
			return body.Message
		case body.Error != "":
			return body.Error
		}
	}

	if text := http.StatusText(status); text != "" {
		return text
	}
	return "Request failed"
}
