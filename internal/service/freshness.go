package service

import (
	"errors"
	"fmt"
	"time"
)

// DefaultRequestLifetime is the window within which a VAU postback is
// considered fresh.
const DefaultRequestLifetime = 60 * time.Second

var (
	errInvalidTimestamp = errors.New("invalid timestamp claim")
	errExpiredRequest   = errors.New("postback outside lifetime window")
)

// checkFreshness validates the timestamp claim against the lifetime window.
// A payload timestamped exactly at now-lifetime is still fresh. Timestamps in
// the future are accepted; the protocol has always tolerated negative clock
// skew and changing that requires coordination with the VAU operators.
func checkFreshness(timestamp string, lifetime time.Duration, now time.Time) error {
	ts, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidTimestamp, err)
	}
	if now.Sub(ts) > lifetime {
		return errExpiredRequest
	}
	return nil
}
