package ratelimit

import (
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// DefaultEndpointConfigs returns the endpoint-specific limits for the recommendation API.
// Scoring a whole pool is the expensive operation, so both recommendation routes share
// the stricter limit. Everything else falls back to the default limit.
func DefaultEndpointConfigs(limit int, window time.Duration, burst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/matching/recommendations", Method: "GET", Limit: limit, Window: window, Burst: burst},
		{Path: "/matching/recommendations", Method: "POST", Limit: limit, Window: window, Burst: burst},
	}
}
