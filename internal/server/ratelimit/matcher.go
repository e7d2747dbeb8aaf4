package ratelimit

import (
	"net/http"
	"strings"
)

// unlimitedGets are health endpoints that are never limited.
var unlimitedGets = map[string]bool{
	"/health":       true,
	"/legal/health": true,
}

// unlimited is returned for health endpoints.
var unlimited = EndpointConfig{}

// MatchEndpoint returns the configuration for a request path and method, or
// nil when none applies. An exact path wins over a prefix entry; prefix
// entries end with "/" ("/legal/" matches "/legal/search"). When several
// prefixes match, the longest wins.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodGet && unlimitedGets[path] {
		cfg := unlimited
		return &cfg
	}

	var best *EndpointConfig
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != method {
			continue
		}
		if cfg.Path == path {
			return cfg
		}
		if strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) {
			if best == nil || len(cfg.Path) > len(best.Path) {
				best = cfg
			}
		}
	}
	return best
}
