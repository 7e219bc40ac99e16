package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizdoc/quizdoc/internal/auth"
	"github.com/quizdoc/quizdoc/internal/exam"
	"github.com/quizdoc/quizdoc/internal/httpx"
)

func CreateTestHandler(svc *exam.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req exam.CreateRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.BadRequest(w, "invalid request body")
			return
		}
		req.UserID = auth.SubjectFromContext(r.Context())

		if req.TestType == exam.TestSimulation {
			prev := r.URL.Query().Get("prev") == "true"
			t, err := svc.CreateSimulation(r.Context(), req, prev)
			if err != nil {
				httpx.Fail(w, err)
				return
			}
			httpx.OK(w, "test created", t)
			return
		}

		t, err := svc.CreateStandard(r.Context(), req)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "test created", t)
	}
}

func GetTestHandler(svc *exam.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id := chi.URLParam(r, "testID")
		tt := exam.TestType(chi.URLParam(r, "testType"))

		if tt == exam.TestSimulation {
			t, err := svc.ViewSimulation(r.Context(), id)
			if err != nil {
				httpx.Fail(w, err)
				return
			}
			httpx.OK(w, "test fetched", t)
			return
		}

		t, err := svc.ViewStandard(r.Context(), id, tt)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "test fetched", t)
	}
}

func SubmitTestHandler(svc *exam.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req struct {
			Answers [][]string `json:"answers"`
		}
		if err := httpx.Decode(r, &req); err != nil {
			httpx.BadRequest(w, "invalid request body")
			return
		}
		id := chi.URLParam(r, "testID")
		tt := exam.TestType(chi.URLParam(r, "testType"))
		res, err := svc.Submit(r.Context(), id, tt, req.Answers)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "test submitted", res)
	}
}
