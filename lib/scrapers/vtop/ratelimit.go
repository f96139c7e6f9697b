package vtop

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

const defaultCooldown = 5 * time.Minute

// cooldownGate remembers the portal's 403 throttle window. The portal
// limits by source address, so one gate serves every client in the
// process.
type cooldownGate struct {
	mu      sync.Mutex
	resetAt time.Time
}

var rateGate cooldownGate

func (g *cooldownGate) check(now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if now.Before(g.resetAt) {
		return &RateLimitedError{ResetAt: g.resetAt}
	}
	return nil
}

func (g *cooldownGate) arm(resetAt time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if resetAt.After(g.resetAt) {
		g.resetAt = resetAt
	}
}

// resetTime reads the throttle window out of a 403's headers, falling
// back to a fixed cooldown when the portal omits them.
func resetTime(headers http.Header, now time.Time) time.Time {
	if raw := headers.Get("X-Rate-Limit-Reset"); raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return time.Unix(unix, 0)
		}
	}
	if raw := headers.Get("Retry-After"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil {
			return now.Add(time.Duration(seconds) * time.Second)
		}
	}
	return now.Add(defaultCooldown)
}
