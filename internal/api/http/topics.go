package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizdoc/quizdoc/internal/catalog"
	"github.com/quizdoc/quizdoc/internal/httpx"
)

func CreateTopicHandler(svc *catalog.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := httpx.Decode(r, &req); err != nil {
			httpx.BadRequest(w, "invalid request body")
			return
		}
		t, err := svc.CreateTopic(r.Context(), req.Name)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "topic created", t)
	}
}

func ListTopicsHandler(svc *catalog.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		topics, err := svc.ListTopics(r.Context())
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "topics fetched", topics)
	}
}

func GetTopicHandler(svc *catalog.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		t, err := svc.GetTopic(r.Context(), chi.URLParam(r, "topicID"))
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "topic fetched", t)
	}
}

func RenameTopicHandler(svc *catalog.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := httpx.Decode(r, &req); err != nil {
			httpx.BadRequest(w, "invalid request body")
			return
		}
		t, err := svc.RenameTopic(r.Context(), chi.URLParam(r, "topicID"), req.Name)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "topic renamed", t)
	}
}

func DeleteTopicHandler(svc *catalog.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if err := svc.DeleteTopic(r.Context(), chi.URLParam(r, "topicID")); err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "topic deleted", nil)
	}
}

func UploadDocumentHandler(svc *catalog.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req struct {
			PDF string `json:"pdf"` // base64
		}
		if err := httpx.Decode(r, &req); err != nil || req.PDF == "" {
			httpx.BadRequest(w, "pdf payload is required")
			return
		}
		t, err := svc.UploadDocument(r.Context(), chi.URLParam(r, "topicID"), req.PDF)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "document uploaded", t)
	}
}

func GetDocumentHandler(svc *catalog.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		doc, err := svc.GetDocument(r.Context(), chi.URLParam(r, "topicID"))
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "document fetched", doc)
	}
}
