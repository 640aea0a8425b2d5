package simpro

import (
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultRetryAttempts = 3
	defaultRetryDelay    = time.Second
	apiPrefixFormat      = "/api/v1.0/companies/%d"
	tokenPath            = "/oauth2/token"
)

// Config configures the Simpro API client. When ClientID and ClientSecret are
// both set the client uses the OAuth2 client-credentials grant, otherwise
// AccessToken is sent as a static bearer token.
type Config struct {
	BaseURL      string
	CompanyID    int
	AccessToken  string
	ClientID     string
	ClientSecret string
	TokenURL     string

	Timeout         time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration
	RateLimitPerSec float64
}

// Response is a buffered API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON exposes the body for path-based extraction.
func (r *Response) JSON() gjson.Result {
	if r == nil {
		return gjson.Result{}
	}
	return gjson.ParseBytes(r.Body)
}
