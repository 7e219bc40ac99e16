package http

import (
	"context"
	"database/sql"
	nethttp "net/http"
	"time"

	"github.com/quizdoc/quizdoc/internal/cache"
)

func HealthzHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// ReadyzHandler reports readiness: the database must answer, redis is
// checked but only degrades the payload since the cache is optional.
func ReadyzHandler(db *sql.DB, redis *cache.RedisCache) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			nethttp.Error(w, "db unavailable", nethttp.StatusServiceUnavailable)
			return
		}
		status := "ok"
		if err := redis.Ping(ctx); err != nil {
			status = "degraded: cache unavailable"
		}
		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte(status))
	}
}
