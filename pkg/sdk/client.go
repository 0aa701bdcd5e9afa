package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethanbaker/lawcus-relay/pkg/leads"
)

// Client wraps calls to the Lawcus relay
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
			// The relay answers GET / with a redirect to Lawcus; callers want the URL
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// AuthorizationURL returns the Lawcus consent page the relay redirects to
func (c *Client) AuthorizationURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	location := resp.Header.Get("Location")
	if resp.StatusCode != http.StatusFound || location == "" {
		return "", fmt.Errorf("[RELAY]: expected redirect, got %d", resp.StatusCode)
	}

	return location, nil
}

// RefreshTokens asks the relay to refresh its stored tokens and returns the
// provider's token response
func (c *Client) RefreshTokens(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.doJSON(ctx, http.MethodGet, "/oauth/refresh", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListLeads returns the Lawcus lead sources
func (c *Client) ListLeads(ctx context.Context) (json.RawMessage, error) {
	var out DataResponse
	if err := c.doJSON(ctx, http.MethodGet, "/leads", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateLead creates a lead in Lawcus and returns the created record
func (c *Client) CreateLead(ctx context.Context, record *leads.Record) (json.RawMessage, error) {
	var out DataResponse
	if err := c.doJSON(ctx, http.MethodPost, "/leads", &CreateLeadRequest{LeadData: record}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// doJSON is a helper to perform JSON requests to the relay. Non-2xx answers
// are returned as an ErrorResponse.
func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)

		var relayErr ErrorResponse
		if err := json.Unmarshal(b, &relayErr); err != nil || relayErr.Message == "" {
			return fmt.Errorf("[RELAY]: '%s %s' failed: %d: %s", method, path, resp.StatusCode, string(b))
		}
		relayErr.Status = resp.StatusCode
		return relayErr
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// IsUnauthorized reports whether err is the relay saying it holds no tokens
func IsUnauthorized(err error) bool {
	var relayErr ErrorResponse
	return errors.As(err, &relayErr) && relayErr.Status == http.StatusUnauthorized
}
