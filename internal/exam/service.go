package exam

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/quizdoc/quizdoc/internal/apperr"
	"github.com/quizdoc/quizdoc/internal/cache"
)

// Service assembles and grades tests. The cache memoizes assembled
// question sets per (category, count); entries are invalidated by the
// admin paths that mutate a category's questions and otherwise age out.
type Service struct {
	store    Store
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewService(store Store, c cache.Cache, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	return &Service{store: store, cache: c, cacheTTL: cacheTTL}
}

type CreateRequest struct {
	UserID            string   `json:"userId"`
	CategoryID        string   `json:"categoryId"`
	TestType          TestType `json:"testType"`
	NumberOfQuestions int      `json:"numberOfQuestions"`
	IsTimed           bool     `json:"isTimed"`
	Duration          int      `json:"duration"`
}

func (r CreateRequest) validate() error {
	switch r.TestType {
	case TestTimer, TestNoTimer, TestSimulation:
	default:
		return apperr.Validation("unknown test type %q", r.TestType)
	}
	if r.UserID == "" {
		return apperr.Validation("userId is required")
	}
	if r.TestType != TestSimulation {
		if r.CategoryID == "" {
			return apperr.Validation("categoryId is required")
		}
		if r.NumberOfQuestions < 0 {
			return apperr.Validation("numberOfQuestions must be >= 0")
		}
	}
	return nil
}

// distribution computes the per-difficulty take counts for a standard
// test: 40% easy and 40% medium rounded up, the remainder hard.
func distribution(total int) (easy, medium, hard int) {
	easy = int(math.Ceil(float64(total) * 0.4))
	medium = int(math.Ceil(float64(total) * 0.4))
	hard = total - easy - medium
	return
}

func questionCacheKey(categoryID string, n int) string {
	return fmt.Sprintf("questions:%s:%d", categoryID, n)
}

// QuestionCachePattern matches every memoized question set for a
// category; admin mutations purge it.
func QuestionCachePattern(categoryID string) string {
	return fmt.Sprintf("questions:%s:*", categoryID)
}

// selectQuestions picks the standard-test question set for a category,
// going through the cache first. A cache hit skips every database query.
func (s *Service) selectQuestions(ctx context.Context, categoryID string, n int) ([]Question, error) {
	key := questionCacheKey(categoryID, n)
	buf, _, err := cache.GetOrCompute(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) ([]byte, error) {
		qs, err := s.sample(ctx, categoryID, n)
		if err != nil {
			return nil, err
		}
		return json.Marshal(qs)
	})
	if err != nil {
		return nil, err
	}
	var qs []Question
	if err := json.Unmarshal(buf, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

func (s *Service) sample(ctx context.Context, categoryID string, n int) ([]Question, error) {
	totalEasy, err := s.store.CountByLevel(ctx, categoryID, LevelEasy)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	totalMedium, err := s.store.CountByLevel(ctx, categoryID, LevelMedium)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	totalHard, err := s.store.CountByLevel(ctx, categoryID, LevelHard)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	takeEasy, takeMedium, takeHard := totalEasy, totalMedium, totalHard
	if n < totalEasy+totalMedium+totalHard {
		takeEasy, takeMedium, takeHard = distribution(n)
	}

	easy, err := s.store.FetchByLevel(ctx, categoryID, LevelEasy, takeEasy)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	medium, err := s.store.FetchByLevel(ctx, categoryID, LevelMedium, takeMedium)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	hard, err := s.store.FetchByLevel(ctx, categoryID, LevelHard, takeHard)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	selected := make([]Question, 0, len(easy)+len(medium)+len(hard))
	selected = append(selected, easy...)
	selected = append(selected, medium...)
	selected = append(selected, hard...)
	for i := range selected {
		selected[i].Answer = nil // never cache canonical answers
	}
	rand.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected, nil
}

// CreateStandard assembles and persists a TIMER or NOTIMER test.
func (s *Service) CreateStandard(ctx context.Context, req CreateRequest) (*Test, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	selected, err := s.selectQuestions(ctx, req.CategoryID, req.NumberOfQuestions)
	if err != nil {
		return nil, err
	}

	duration := 0
	if req.IsTimed {
		duration = req.Duration
	}
	t := &Test{
		ID:                uuid.NewString(),
		UserID:            req.UserID,
		CategoryID:        req.CategoryID,
		TestType:          req.TestType,
		NumberOfQuestions: len(selected),
		Duration:          duration,
		IsTimed:           req.IsTimed,
		Questions:         selected,
		CreatedAt:         time.Now().Unix(),
	}
	if err := s.store.CreateTest(ctx, t); err != nil {
		return nil, apperr.Storage(err)
	}
	return t, nil
}

// CreateSimulation assembles a fixed-composition mock exam: exactly 50
// single-answer and 150 multiple-answer questions, scoped to one category
// when prevTopic is set. Nothing is persisted if either pool is short.
func (s *Service) CreateSimulation(ctx context.Context, req CreateRequest, prevTopic bool) (*SimulationTest, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	categoryID := ""
	if prevTopic {
		categoryID = req.CategoryID
	}
	single, err := s.store.FetchByArity(ctx, categoryID, false, SimulationSinglePool)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	multiple, err := s.store.FetchByArity(ctx, categoryID, true, SimulationMultiplePool)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if len(single) < SimulationSinglePool || len(multiple) < SimulationMultiplePool {
		return nil, apperr.Validation("insufficient questions available for a SIMULATION test")
	}
	for i := range single {
		single[i].Answer = nil
	}
	for i := range multiple {
		multiple[i].Answer = nil
	}

	t := &SimulationTest{
		ID:                uuid.NewString(),
		UserID:            req.UserID,
		CategoryID:        categoryID,
		NumberOfQuestions: len(single) + len(multiple),
		Duration:          req.Duration,
		SingleQuestions:   single,
		MultipleQuestions: multiple,
		CreatedAt:         time.Now().Unix(),
	}
	if err := s.store.CreateSimulationTest(ctx, t); err != nil {
		return nil, apperr.Storage(err)
	}
	return t, nil
}

// ViewStandard returns a standard test, with canonical answers and
// metrics redacted until the instance is completed.
func (s *Service) ViewStandard(ctx context.Context, id string, tt TestType) (*Test, error) {
	t, err := s.store.GetTest(ctx, id, tt)
	if err != nil {
		return nil, err
	}
	if !t.IsCompleted {
		for i := range t.Questions {
			t.Questions[i].Answer = nil
		}
		t.UserAnswers = [][]string{}
		t.Result = Result{}
	}
	return t, nil
}

// ViewSimulation is the simulation counterpart of ViewStandard.
func (s *Service) ViewSimulation(ctx context.Context, id string) (*SimulationTest, error) {
	t, err := s.store.GetSimulationTest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.IsCompleted {
		for i := range t.SingleQuestions {
			t.SingleQuestions[i].Answer = nil
		}
		for i := range t.MultipleQuestions {
			t.MultipleQuestions[i].Answer = nil
		}
		t.UserAnswers = [][]string{}
		t.Result = Result{}
	}
	return t, nil
}

// Submit grades an ordered answer array against the stored question set
// and persists the completed state with metrics in one update.
func (s *Service) Submit(ctx context.Context, id string, tt TestType, answers [][]string) (*Result, error) {
	var questions []Question
	switch tt {
	case TestSimulation:
		t, err := s.store.GetSimulationTest(ctx, id)
		if err != nil {
			return nil, err
		}
		// Fixed grading order: the single-answer pool first.
		questions = append(questions, t.SingleQuestions...)
		questions = append(questions, t.MultipleQuestions...)
	case TestTimer, TestNoTimer:
		t, err := s.store.GetTest(ctx, id, tt)
		if err != nil {
			return nil, err
		}
		questions = t.Questions
	default:
		return nil, apperr.Validation("unknown test type %q", tt)
	}

	res := Grade(questions, answers)
	if err := s.store.CompleteTest(ctx, id, tt, answers, res); err != nil {
		return nil, apperr.Storage(err)
	}
	return &res, nil
}

// History returns a user's tests created in the given month.
func (s *Service) History(ctx context.Context, userID string, from, to time.Time) (standard, simulation []TestSummary, err error) {
	return s.store.ListByMonth(ctx, userID, from.Unix(), to.Unix())
}
