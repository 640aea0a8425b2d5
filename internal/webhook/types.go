package webhook

import "errors"

// SecurityConfig holds webhook security settings
type SecurityConfig struct {
	Secret          string   // Shared secret expected in X-Webhook-Secret or ?secret=; empty disables the check
	AllowedIPs      []string // IP whitelist (optional)
	RateLimitPerMin int      // Max requests per minute per source IP; 0 disables limiting
}

const (
	maxBodyBytes = 1 << 20
	secretHeader = "X-Webhook-Secret"
	secretQuery  = "secret"
)

var (
	ErrInvalidSecret     = errors.New("invalid webhook secret")
	ErrIPNotAllowed      = errors.New("source ip not whitelisted")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)
