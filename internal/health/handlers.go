package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/receipthub/backend-receipt/internal/common"
)

var draining atomic.Bool

// SetReady toggles readiness. The server clears it when shutdown begins so
// load balancers stop routing new requests.
func SetReady(ready bool) { draining.Store(!ready) }

// Probe is a named dependency check run by the readiness endpoint.
type Probe struct {
	Name    string
	Timeout time.Duration
	Check   func(ctx context.Context) error
}

// PoolProbe pings the PostgreSQL pool.
func PoolProbe(pool *pgxpool.Pool) Probe {
	return Probe{Name: "db", Timeout: 500 * time.Millisecond, Check: pool.Ping}
}

// RedisProbe pings Redis.
func RedisProbe(client *redis.Client) Probe {
	return Probe{Name: "redis", Timeout: 300 * time.Millisecond, Check: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Probes []Probe
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	common.Text(w, http.StatusOK, "ok")
}

// Ready runs every probe and reports 503 when any fails or the server is draining.
// Probe errors are reported as "unavailable" and not echoed.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	status := make(map[string]string, len(h.Probes)+1)
	healthy := true
	if draining.Load() {
		status["server"] = "draining"
		healthy = false
	}
	for _, p := range h.Probes {
		if p.Check == nil {
			continue
		}
		if err := h.run(r.Context(), p); err != nil {
			status[p.Name] = "unavailable"
			healthy = false
			continue
		}
		status[p.Name] = "ok"
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	common.JSON(w, code, status)
}

func (h Handler) run(ctx context.Context, p Probe) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Check(ctx)
}
