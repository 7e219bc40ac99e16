package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizdoc/quizdoc/internal/cache"
	"github.com/quizdoc/quizdoc/internal/httpx"
)

// RefreshPresenceHandler marks the user online for the presence TTL.
// Clients call it on a heartbeat.
func RefreshPresenceHandler(p *cache.Presence) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if err := p.Refresh(r.Context(), chi.URLParam(r, "userID")); err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "presence refreshed", nil)
	}
}

func ActiveUsersHandler(p *cache.Presence) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		n, err := p.ActiveCount(r.Context())
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "active users fetched", map[string]int{"activeUsers": n})
	}
}
