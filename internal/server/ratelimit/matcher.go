package ratelimit

import (
	"strings"
)

// unlimited lists method+path pairs that are never limited.
var unlimited = map[string]bool{
	"GET /health":           true,
	"GET /matching/weights": true,
}

// MatchEndpoint returns the configuration for a request, or nil when the default limit
// applies. Exact paths win over prefixes; a configured path ending in "/" matches any
// path below it.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimited[method+" "+path] {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
