package config

import "time"

type SecurityConfig interface {
	GetStateTokenSecret() []byte
	GetStateTokenExpiry() time.Duration
	GetTokenRefreshSkew() time.Duration
	GetUpstreamTimeout() time.Duration
	GetOrdersSearchLimit() int
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetStateTokenSecret() []byte {
	return []byte(GetEnv("ML_STATE_SECRET", ""))
}

func (Security) GetStateTokenExpiry() time.Duration {
	return 10 * time.Minute
}

// GetTokenRefreshSkew is how long before expiry an access token is already
// treated as stale. Mercado Livre tokens last 6 hours; refreshing 5 minutes
// early avoids racing the expiry during an orders fetch.
func (Security) GetTokenRefreshSkew() time.Duration {
	return 5 * time.Minute
}

func (Security) GetUpstreamTimeout() time.Duration {
	return 10 * time.Second
}

func (Security) GetOrdersSearchLimit() int {
	return 50
}
