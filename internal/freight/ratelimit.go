package freight

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/redisx"
	"github.com/redis/go-redis/v9"
)

type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter counts requests per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type window struct {
	start time.Time
	count int
}

// MemoryLimiter keeps counters in process memory. Counters are not shared
// between instances, so the limit is per instance.
type MemoryLimiter struct {
	Limit  int
	Window time.Duration
	Now    func() time.Time

	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

func NewMemoryLimiter(limit int, win time.Duration) *MemoryLimiter {
	return &MemoryLimiter{Limit: limit, Window: win, windows: map[string]*window{}}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.windows == nil {
		m.windows = map[string]*window{}
	}
	m.sweep(now)

	w, ok := m.windows[key]
	if !ok || now.Sub(w.start) >= m.Window {
		w = &window{start: now}
		m.windows[key] = w
	}
	d := Decision{Limit: m.Limit, ResetAt: w.start.Add(m.Window)}
	if w.count >= m.Limit {
		return d, nil
	}
	w.count++
	d.Allowed = true
	d.Remaining = m.Limit - w.count
	return d, nil
}

// sweep drops elapsed windows at most once per window length.
func (m *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.Window {
		return
	}
	m.lastSweep = now
	for k, w := range m.windows {
		if now.Sub(w.start) >= m.Window {
			delete(m.windows, k)
		}
	}
}

// RedisLimiter shares counters across instances through INCR + PEXPIRE.
type RedisLimiter struct {
	Client redis.Cmdable
	Limit  int
	Window time.Duration
	Now    func() time.Time
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	k := fmt.Sprintf(redisx.KeyFreightRate, key)
	n, err := r.Client.Incr(ctx, k).Result()
	if err != nil {
		return Decision{}, err
	}
	ttl, err := r.Client.PTTL(ctx, k).Result()
	if err != nil {
		return Decision{}, err
	}
	if n == 1 || ttl < 0 {
		if err := r.Client.PExpire(ctx, k, r.Window).Err(); err != nil {
			return Decision{}, err
		}
		ttl = r.Window
	}
	d := Decision{Limit: r.Limit, ResetAt: now.Add(ttl)}
	if int(n) > r.Limit {
		return d, nil
	}
	d.Allowed = true
	d.Remaining = r.Limit - int(n)
	return d, nil
}
