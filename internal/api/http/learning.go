package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizdoc/quizdoc/internal/httpx"
	"github.com/quizdoc/quizdoc/internal/progress"
)

// sessionView is the learner-facing session payload: per-topic positions,
// overall percentage and (on create/get) inlined documents.
type sessionView struct {
	*progress.Session
	OverallProgress int                 `json:"overallProgress"`
	Documents       []progress.TopicPDF `json:"documents,omitempty"`
}

func CreateLearningSessionHandler(svc *progress.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req struct {
			TopicIDs []string `json:"topicIds"`
		}
		if err := httpx.Decode(r, &req); err != nil {
			httpx.BadRequest(w, "invalid request body")
			return
		}
		userID := chi.URLParam(r, "userID")
		sess, created, err := svc.CreateOrGet(r.Context(), userID, req.TopicIDs)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		view := sessionView{
			Session:         sess,
			OverallProgress: progress.Overall(sess),
			Documents:       svc.Documents(r.Context(), sess),
		}
		msg := "learning session fetched"
		if created {
			msg = "learning session created"
		}
		httpx.OK(w, msg, view)
	}
}

func ListLearningSessionsHandler(svc *progress.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		sessions, err := svc.List(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		views := make([]sessionView, 0, len(sessions))
		for i := range sessions {
			views = append(views, sessionView{
				Session:         &sessions[i],
				OverallProgress: progress.Overall(&sessions[i]),
			})
		}
		httpx.OK(w, "learning sessions fetched", views)
	}
}

func GetLearningSessionHandler(svc *progress.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		sess, err := svc.Get(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		view := sessionView{
			Session:         sess,
			OverallProgress: progress.Overall(sess),
			Documents:       svc.Documents(r.Context(), sess),
		}
		httpx.OK(w, "learning session fetched", view)
	}
}

// EnqueuePageHandler buffers a page turn; the tracker writes it out after
// the quiet period.
func EnqueuePageHandler(tracker *progress.Tracker) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req struct {
			TopicID string `json:"topicId"`
			Page    int    `json:"page"`
		}
		if err := httpx.Decode(r, &req); err != nil || req.TopicID == "" {
			httpx.BadRequest(w, "topicId and page are required")
			return
		}
		tracker.Enqueue(progress.Update{
			UserID:    chi.URLParam(r, "userID"),
			SessionID: chi.URLParam(r, "sessionID"),
			TopicID:   req.TopicID,
			Page:      req.Page,
		})
		httpx.OK(w, "progress buffered", nil)
	}
}

// FlushProgressHandler forces the tracker to write now, for the reader's
// unmount path.
func FlushProgressHandler(tracker *progress.Tracker) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		tracker.Flush(r.Context())
		httpx.OK(w, "progress flushed", nil)
	}
}

func ResetLearningSessionHandler(svc *progress.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		err := svc.Reset(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "learning session reset", nil)
	}
}
