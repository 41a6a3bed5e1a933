package clock

import (
	"sync"
	"time"
)

// Clock abstrae la hora actual para que fechas de factura y periodos de pago sean testeables.
type Clock interface {
	Now() time.Time
}

// Real usa time.Now en UTC.
type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC() }

// Today trunca la hora actual al inicio del día (UTC).
func Today(c Clock) time.Time {
	now := c.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
