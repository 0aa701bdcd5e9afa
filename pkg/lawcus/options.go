package lawcus

import (
	"net/http"
	"strings"
	"time"
)

// Fixed Lawcus endpoints
const (
	AuthBaseURL = "https://auth.lawcus.com"
	APIBaseURL  = "https://api.us.lawcus.com"

	authPath  = "/auth"
	tokenPath = "/oauth/token"

	defaultTimeout = 60 * time.Second
)

// Options overrides the provider endpoints and HTTP client. The zero value
// talks to the production Lawcus hosts.
type Options struct {
	AuthBaseURL string
	APIBaseURL  string
	HTTPClient  *http.Client
}

func (o *Options) withDefaults() Options {
	out := Options{}
	if o != nil {
		out = *o
	}

	if out.AuthBaseURL == "" {
		out.AuthBaseURL = AuthBaseURL
	}
	if out.APIBaseURL == "" {
		out.APIBaseURL = APIBaseURL
	}
	if out.HTTPClient == nil {
		out.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}

	out.AuthBaseURL = strings.TrimRight(out.AuthBaseURL, "/")
	out.APIBaseURL = strings.TrimRight(out.APIBaseURL, "/")

	return out
}
