package question

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/quizdoc/quizdoc/internal/apperr"
	"github.com/quizdoc/quizdoc/internal/cache"
	"github.com/quizdoc/quizdoc/internal/exam"
)

const defaultPageLimit = 10

// Service owns question administration and flag triage.
type Service struct {
	store Store
	cache cache.Cache
}

func NewService(store Store, c cache.Cache) *Service {
	return &Service{store: store, cache: c}
}

func (s *Service) Get(ctx context.Context, id string) (*Question, error) {
	return s.store.GetQuestion(ctx, id)
}

func (s *Service) List(ctx context.Context, categoryID string, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	qs, total, err := s.store.ListQuestions(ctx, categoryID, (page-1)*limit, limit)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &Page{
		Questions:  qs,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		Page:       page,
		Limit:      limit,
	}, nil
}

// Update rewrites the question with its choices and answers, then drops
// the category's memoized question sets so learners see the edit.
func (s *Service) Update(ctx context.Context, q *Question) (*Question, error) {
	if q.Text == "" {
		return nil, apperr.Validation("question text is required")
	}
	if len(q.Choices) < 2 {
		return nil, apperr.Validation("a question needs at least two choices")
	}
	if len(q.Answer) == 0 {
		return nil, apperr.Validation("a question needs at least one answer")
	}
	current, err := s.store.GetQuestion(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	q.CategoryID = current.CategoryID
	q.CreatedAt = current.CreatedAt
	// New choices arrive without ids.
	for i := range q.Choices {
		if q.Choices[i].ID == "" {
			q.Choices[i].ID = uuid.NewString()
		}
	}
	known := make(map[string]bool, len(q.Choices))
	for _, c := range q.Choices {
		known[c.ID] = true
	}
	for _, id := range q.Answer {
		if !known[id] {
			return nil, apperr.Validation("answer %s is not one of the choices", id)
		}
	}
	q.IsMultipleAnswer = len(q.Answer) > 1
	if err := s.store.UpdateQuestion(ctx, q); err != nil {
		return nil, apperr.Storage(err)
	}
	s.purgeQuestionCache(ctx, q.CategoryID)
	return q, nil
}

func (s *Service) SetParagraph(ctx context.Context, id, paragraph string) (*Question, error) {
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetParagraph(ctx, id, paragraph); err != nil {
		return nil, apperr.Storage(err)
	}
	q.Paragraph = paragraph
	s.purgeQuestionCache(ctx, q.CategoryID)
	return q, nil
}

func (s *Service) purgeQuestionCache(ctx context.Context, categoryID string) {
	keys, err := s.cache.Keys(ctx, exam.QuestionCachePattern(categoryID))
	if err != nil {
		log.Printf("purge question cache for %s: %v", categoryID, err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		log.Printf("purge question cache for %s: %v", categoryID, err)
	}
}

func (s *Service) FlagQuestion(ctx context.Context, questionID, userID, description string) (*Flag, error) {
	if description == "" {
		return nil, apperr.Validation("a flag needs a description")
	}
	if _, err := s.store.GetQuestion(ctx, questionID); err != nil {
		return nil, err
	}
	f := &Flag{
		ID:          uuid.NewString(),
		QuestionID:  questionID,
		UserID:      userID,
		Description: description,
		CreatedAt:   time.Now().Unix(),
	}
	if err := s.store.CreateFlag(ctx, f); err != nil {
		return nil, apperr.Storage(err)
	}
	return f, nil
}

func (s *Service) ListFlags(ctx context.Context, resolved bool) ([]Flag, error) {
	return s.store.ListFlags(ctx, resolved)
}

// ResolveFlag closes a flag with a reviewer comment. Resolution is
// terminal: resolving twice is a conflict.
func (s *Service) ResolveFlag(ctx context.Context, id, comment string) (*Flag, error) {
	f, err := s.store.GetFlag(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Resolved {
		return nil, apperr.Conflict("flag already resolved")
	}
	if err := s.store.ResolveFlag(ctx, id, comment); err != nil {
		return nil, apperr.Storage(err)
	}
	f.Resolved = true
	f.Comment = comment
	return f, nil
}
