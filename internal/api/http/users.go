package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizdoc/quizdoc/internal/exam"
	"github.com/quizdoc/quizdoc/internal/httpx"
	"github.com/quizdoc/quizdoc/internal/user"
)

func GetProfileHandler(svc *user.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		p, err := svc.GetProfile(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "profile fetched", p)
	}
}

func UpdateProfileHandler(svc *user.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req user.ProfileUpdate
		if err := httpx.Decode(r, &req); err != nil {
			httpx.BadRequest(w, "invalid request body")
			return
		}
		p, err := svc.UpdateProfile(r.Context(), chi.URLParam(r, "userID"), req)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "profile updated", p)
	}
}

func UserStatsHandler(svc *user.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		st, err := svc.Stats(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "stats fetched", st)
	}
}

func TestHistoryHandler(svc *user.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		standard, simulation, err := svc.History(r.Context(),
			chi.URLParam(r, "userID"), r.URL.Query().Get("month"))
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "tests fetched", map[string][]exam.TestSummary{
			"tests":           standard,
			"simulationTests": simulation,
		})
	}
}

func LeaderboardHandler(svc *user.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		ranks, err := svc.Leaderboard(r.Context())
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "leaderboard fetched", ranks)
	}
}
