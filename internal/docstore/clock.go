package docstore

import (
	"sync"
	"time"
)

// StampLayout is fixed width so stamps compare correctly as strings.
const StampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Clock hands out strictly increasing UTC instants at microsecond precision.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

// Stamp returns Now formatted with StampLayout.
func (c *Clock) Stamp() string {
	return FormatStamp(c.Now())
}

func FormatStamp(t time.Time) string {
	return t.UTC().Format(StampLayout)
}

// ParseStamp accepts StampLayout and any RFC 3339 timestamp, which covers
// records written by older clients.
func ParseStamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
