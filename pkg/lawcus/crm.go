package lawcus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ethanbaker/lawcus-relay/pkg/leads"
	"golang.org/x/oauth2"
)

// AuthScheme is the authorization scheme the Lawcus API expects in front of
// the access token
const AuthScheme = "Oauth Bearer"

const (
	leadSourcesPath = "/leadsources"
	leadsPath       = "/leads"
)

// Result is a successful upstream response, forwarded as-is
type Result struct {
	Status int
	Body   json.RawMessage
}

// CRMClient calls the Lawcus REST API with one bound access token
type CRMClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCRMClient creates a client that authenticates every call with accessToken
func NewCRMClient(ctx context.Context, accessToken string, opts *Options) *CRMClient {
	o := opts.withDefaults()

	// oauth2.NewClient builds its transport on top of the client in ctx
	ctx = context.WithValue(ctx, oauth2.HTTPClient, o.HTTPClient)
	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   AuthScheme,
	})

	return &CRMClient{
		baseURL:    o.APIBaseURL,
		httpClient: oauth2.NewClient(ctx, source),
	}
}

// ListLeads fetches the lead sources configured in Lawcus
func (c *CRMClient) ListLeads(ctx context.Context) (*Result, error) {
	return c.do(ctx, http.MethodGet, leadSourcesPath, nil)
}

// CreateLead creates a lead from record
func (c *CRMClient) CreateLead(ctx context.Context, record *leads.Record) (*Result, error) {
	if record == nil {
		return nil, internalError(errors.New("nil lead record"))
	}
	return c.do(ctx, http.MethodPost, leadsPath, record)
}

// do performs one JSON call and classifies the outcome
func (c *CRMClient) do(ctx context.Context, method, path string, in any) (*Result, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, internalError(err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, internalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, internalError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, internalError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Request failed with status code %d", resp.StatusCode),
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("null")
	}
	if !json.Valid(data) {
		return nil, internalError(fmt.Errorf("'%s %s' returned a non-JSON body", method, path))
	}

	return &Result{Status: resp.StatusCode, Body: json.RawMessage(data)}, nil
}
