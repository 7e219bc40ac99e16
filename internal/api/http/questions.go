package http

import (
	nethttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quizdoc/quizdoc/internal/auth"
	"github.com/quizdoc/quizdoc/internal/httpx"
	"github.com/quizdoc/quizdoc/internal/question"
)

const maxCSVSize = 10 << 20

func GetQuestionHandler(svc *question.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		q, err := svc.Get(r.Context(), chi.URLParam(r, "questionID"))
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "question fetched", q)
	}
}

func ListQuestionsHandler(svc *question.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		p, err := svc.List(r.Context(), chi.URLParam(r, "categoryID"), page, limit)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "questions fetched", p)
	}
}

func UpdateQuestionHandler(svc *question.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req question.Question
		if err := httpx.Decode(r, &req); err != nil {
			httpx.BadRequest(w, "invalid request body")
			return
		}
		req.ID = chi.URLParam(r, "questionID")
		q, err := svc.Update(r.Context(), &req)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "question updated", q)
	}
}

func SetParagraphHandler(svc *question.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req struct {
			Paragraph string `json:"paragraph"`
		}
		if err := httpx.Decode(r, &req); err != nil {
			httpx.BadRequest(w, "invalid request body")
			return
		}
		q, err := svc.SetParagraph(r.Context(), chi.URLParam(r, "questionID"), req.Paragraph)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "paragraph updated", q)
	}
}

// ImportQuestionsHandler ingests a multipart CSV upload: field "file" plus
// form value "categoryId".
func ImportQuestionsHandler(svc *question.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if err := r.ParseMultipartForm(maxCSVSize); err != nil {
			httpx.BadRequest(w, "invalid multipart form")
			return
		}
		categoryID := r.FormValue("categoryId")
		if categoryID == "" {
			httpx.BadRequest(w, "categoryId is required")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			httpx.BadRequest(w, "csv file is required")
			return
		}
		defer file.Close()

		n, err := svc.ImportCSV(r.Context(), categoryID, file)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "questions imported", map[string]int{"imported": n})
	}
}

func CreateFlagHandler(svc *question.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req struct {
			QuestionID  string `json:"questionId"`
			Description string `json:"description"`
		}
		if err := httpx.Decode(r, &req); err != nil {
			httpx.BadRequest(w, "invalid request body")
			return
		}
		userID := auth.SubjectFromContext(r.Context())
		f, err := svc.FlagQuestion(r.Context(), req.QuestionID, userID, req.Description)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "question flagged", f)
	}
}

func ListFlagsHandler(svc *question.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		resolved := r.URL.Query().Get("resolved") == "true"
		flags, err := svc.ListFlags(r.Context(), resolved)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "flags fetched", flags)
	}
}

func ResolveFlagHandler(svc *question.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req struct {
			Comment string `json:"comment"`
		}
		if err := httpx.Decode(r, &req); err != nil {
			httpx.BadRequest(w, "invalid request body")
			return
		}
		f, err := svc.ResolveFlag(r.Context(), chi.URLParam(r, "flagID"), req.Comment)
		if err != nil {
			httpx.Fail(w, err)
			return
		}
		httpx.OK(w, "flag resolved", f)
	}
}
