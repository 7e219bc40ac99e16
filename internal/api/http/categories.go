package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizdoc/quizdoc/internal/catalog"
	"github.com/quizdoc/quizdoc/internal/httpx"
)

// Handlers only — routes remain in main.go

func CreateCategoryHandler(svc *catalog.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req struct {
			Name      string `json:"name"`
			PrevTopic bool   `json:"prevTopic"`
		}
		if err := httpx.Decode(r, &req); err != nil {
			httpx.BadRequest(w, "invalid request body")
			return
		}
		c, err := svc.CreateCategory(r.Context(), req.Name, req.PrevTopic)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "category created", c)
	}
}

func ListCategoriesHandler(svc *catalog.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		prev := r.URL.Query().Get("prev") == "true"
		cats, err := svc.ListCategories(r.Context(), prev)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "categories fetched", cats)
	}
}

func RenameCategoryHandler(svc *catalog.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := httpx.Decode(r, &req); err != nil {
			httpx.BadRequest(w, "invalid request body")
			return
		}
		c, err := svc.RenameCategory(r.Context(), chi.URLParam(r, "categoryID"), req.Name)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "category renamed", c)
	}
}

func DeleteCategoryHandler(svc *catalog.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		c, err := svc.SoftDeleteCategory(r.Context(), chi.URLParam(r, "categoryID"))
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "category deleted", c)
	}
}

func ListDeletedCategoriesHandler(svc *catalog.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		cats, err := svc.ListDeletedCategories(r.Context())
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "deleted categories fetched", cats)
	}
}

func RestoreCategoryHandler(svc *catalog.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		c, err := svc.RestoreCategory(r.Context(), chi.URLParam(r, "categoryID"))
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "category restored", c)
	}
}
