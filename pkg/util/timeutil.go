package util

import "time"

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ISO8601 formats ts the way the upstream API stamps readings.
func ISO8601(ts time.Time) string {
	return ts.UTC().Format("2006-01-02T15:04:05.000Z")
}
