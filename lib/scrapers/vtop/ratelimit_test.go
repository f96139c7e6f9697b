package vtop

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCooldownGate(t *testing.T) {
	var gate cooldownGate
	now := time.Now()

	require.NoError(t, gate.check(now))

	gate.arm(now.Add(time.Minute))
	err := gate.check(now)
	var limited *RateLimitedError
	require.ErrorAs(t, err, &limited)
	require.Equal(t, now.Add(time.Minute), limited.ResetAt)

	// An earlier reset never shortens an armed window.
	gate.arm(now.Add(time.Second))
	require.Error(t, gate.check(now))

	require.NoError(t, gate.check(now.Add(time.Minute)))
}

func TestResetTime(t *testing.T) {
	now := time.Now()

	{
		headers := http.Header{}
		headers.Set("X-Rate-Limit-Reset", strconv.FormatInt(now.Add(time.Hour).Unix(), 10))
		require.Equal(t, now.Add(time.Hour).Unix(), resetTime(headers, now).Unix())
	}
	{
		headers := http.Header{}
		headers.Set("Retry-After", "120")
		require.Equal(t, now.Add(2*time.Minute).Unix(), resetTime(headers, now).Unix())
	}
	{
		require.Equal(t, now.Add(defaultCooldown).Unix(), resetTime(http.Header{}, now).Unix())
	}
}
