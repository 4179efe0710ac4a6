package crawl

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/gbinews"
	"golang.org/x/time/rate"
)

var _ gbinews.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces requests to each host by a fixed interval. Index
// and article pages live on the same host, so one limiter covers every
// request a crawl makes to the site.
type DomainLimiter struct {
	every    time.Duration
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewDomainLimiter allows one request per host every interval. A
// non-positive interval disables limiting.
func NewDomainLimiter(every time.Duration) *DomainLimiter {
	return &DomainLimiter{
		every:    every,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to domain is allowed or ctx is done.
// Host names are compared case-insensitively.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.every <= 0 {
		return ctx.Err()
	}
	return d.limiter(strings.ToLower(domain)).Wait(ctx)
}

func (d *DomainLimiter) limiter(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.limiters[host]
	if !ok {
		// Burst 1 means no two requests are ever closer than every.
		l = rate.NewLimiter(rate.Every(d.every), 1)
		d.limiters[host] = l
	}
	return l
}
