package http

import "time"

// rateLimiter caps inbound frames per minute for a single connection.
// A limit of zero disables it. Used from the read loop only, so it needs
// no locking; the window rolls over lazily on the next allow call.
type rateLimiter struct {
	limit     int
	counter   int
	windowEnd time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{limit: limit}
}

func (r *rateLimiter) allow() bool {
	if r.limit <= 0 {
		return true
	}
	now := time.Now()
	if now.After(r.windowEnd) {
		r.counter = 0
		r.windowEnd = now.Add(time.Minute)
	}
	r.counter++
	return r.counter <= r.limit
}
