// SPDX-License-Identifier: MIT

package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/ManuGH/chess-a2a/internal/log"
)

// DefaultRequestsPerMinute applies when APIRateLimit is given a non-positive limit.
const DefaultRequestsPerMinute = 600

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	RequestLimit int
	WindowSize   time.Duration
	// KeyFunc buckets requests; nil buckets by client IP.
	KeyFunc func(r *http.Request) (string, error)
	// Whitelist holds IPs or CIDRs that skip the limiter entirely.
	Whitelist []string
}

// RateLimit applies a sliding-window limit. A rejected request gets 429,
// a Retry-After of one window, and a JSON-RPC error body.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(max(1, int(cfg.WindowSize.Seconds())))
	limiter := httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowSize,
		httprate.WithKeyFuncs(keyFuncOrIP(cfg.KeyFunc)),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Retry-After", retryAfter)
			writeRPCError(w, http.StatusTooManyRequests, "rate limit exceeded")
		}),
	)

	trusted := parseWhitelist(cfg.Whitelist)
	if len(trusted) == 0 {
		return limiter
	}
	return func(next http.Handler) http.Handler {
		limited := limiter(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := limited
			if whitelisted(trusted, r.RemoteAddr) {
				h = next
			}
			h.ServeHTTP(w, r)
		})
	}
}

func keyFuncOrIP(fn httprate.KeyFunc) httprate.KeyFunc {
	if fn == nil {
		return httprate.KeyByIP
	}
	return fn
}

// APIRateLimit limits each client IP to requestsPerMinute.
func APIRateLimit(requestsPerMinute int, whitelist []string) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	return RateLimit(RateLimitConfig{
		RequestLimit: requestsPerMinute,
		WindowSize:   time.Minute,
		Whitelist:    whitelist,
	})
}

// parseWhitelist turns addresses into single-host prefixes and drops
// entries that are neither an address nor a CIDR.
func parseWhitelist(entries []string) []netip.Prefix {
	out := make([]netip.Prefix, 0, len(entries))
	for _, e := range entries {
		p, err := netip.ParsePrefix(e)
		if err != nil {
			a, aerr := netip.ParseAddr(e)
			if aerr != nil {
				logger := log.WithComponent("ratelimit")
				logger.Warn().Str("entry", e).Msg("ignoring invalid whitelist entry")
				continue
			}
			p = netip.PrefixFrom(a, a.BitLen())
		}
		out = append(out, p.Masked())
	}
	return out
}

func whitelisted(trusted []netip.Prefix, remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return slices.ContainsFunc(trusted, func(p netip.Prefix) bool { return p.Contains(addr) })
}
