package exam_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/quizdoc/quizdoc/internal/exam"
)

/* ---------------- In-memory fakes satisfying exam.Store and cache.Cache ---------------- */

type fakeStore struct {
	byLevel map[exam.Level][]exam.Question
	byArity map[bool][]exam.Question

	countCalls int
	fetchCalls int

	tests     map[string]*exam.Test
	simTests  map[string]*exam.SimulationTest
	completed map[string]exam.Result
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byLevel:   map[exam.Level][]exam.Question{},
		byArity:   map[bool][]exam.Question{},
		tests:     map[string]*exam.Test{},
		simTests:  map[string]*exam.SimulationTest{},
		completed: map[string]exam.Result{},
	}
}

func (s *fakeStore) CountByLevel(_ context.Context, _ string, level exam.Level) (int, error) {
	s.countCalls++
	return len(s.byLevel[level]), nil
}

func (s *fakeStore) FetchByLevel(_ context.Context, _ string, level exam.Level, limit int) ([]exam.Question, error) {
	s.fetchCalls++
	qs := s.byLevel[level]
	if limit <= 0 {
		return nil, nil
	}
	if limit > len(qs) {
		limit = len(qs)
	}
	return append([]exam.Question(nil), qs[:limit]...), nil
}

func (s *fakeStore) FetchByArity(_ context.Context, _ string, multiple bool, limit int) ([]exam.Question, error) {
	qs := s.byArity[multiple]
	if limit > len(qs) {
		limit = len(qs)
	}
	return append([]exam.Question(nil), qs[:limit]...), nil
}

func (s *fakeStore) CreateTest(_ context.Context, t *exam.Test) error {
	s.tests[t.ID] = t
	return nil
}

func (s *fakeStore) CreateSimulationTest(_ context.Context, t *exam.SimulationTest) error {
	s.simTests[t.ID] = t
	return nil
}

func (s *fakeStore) GetTest(_ context.Context, id string, _ exam.TestType) (*exam.Test, error) {
	t, ok := s.tests[id]
	if !ok {
		return nil, fmt.Errorf("test %q not found", id)
	}
	cp := *t
	cp.Questions = append([]exam.Question(nil), t.Questions...)
	return &cp, nil
}

func (s *fakeStore) GetSimulationTest(_ context.Context, id string) (*exam.SimulationTest, error) {
	t, ok := s.simTests[id]
	if !ok {
		return nil, fmt.Errorf("test %q not found", id)
	}
	cp := *t
	cp.SingleQuestions = append([]exam.Question(nil), t.SingleQuestions...)
	cp.MultipleQuestions = append([]exam.Question(nil), t.MultipleQuestions...)
	return &cp, nil
}

func (s *fakeStore) CompleteTest(_ context.Context, id string, _ exam.TestType, _ [][]string, res exam.Result) error {
	s.completed[id] = res
	return nil
}

func (s *fakeStore) ListByMonth(_ context.Context, _ string, _, _ int64) ([]exam.TestSummary, []exam.TestSummary, error) {
	return nil, nil, nil
}

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *fakeCache) Keys(_ context.Context, _ string) ([]string, error) { return nil, nil }
func (c *fakeCache) Del(_ context.Context, _ ...string) error           { return nil }

func seedLevels(s *fakeStore, easy, medium, hard int) {
	mk := func(level exam.Level, n int) []exam.Question {
		qs := make([]exam.Question, n)
		for i := range qs {
			qs[i] = exam.Question{
				ID:      fmt.Sprintf("%s-%d", level, i),
				Level:   level,
				Choices: []exam.Choice{{ID: "c1", Text: "a"}, {ID: "c2", Text: "b"}},
				Answer:  []string{"c1"},
			}
		}
		return qs
	}
	s.byLevel[exam.LevelEasy] = mk(exam.LevelEasy, easy)
	s.byLevel[exam.LevelMedium] = mk(exam.LevelMedium, medium)
	s.byLevel[exam.LevelHard] = mk(exam.LevelHard, hard)
}

/* ---------------- Standard path ---------------- */

func TestCreateStandardDistribution(t *testing.T) {
	store := newFakeStore()
	seedLevels(store, 20, 20, 20)
	svc := exam.NewService(store, newFakeCache(), time.Hour)

	test, err := svc.CreateStandard(context.Background(), exam.CreateRequest{
		UserID:            "u1",
		CategoryID:        "cat1",
		TestType:          exam.TestNoTimer,
		NumberOfQuestions: 10,
	})
	if err != nil {
		t.Fatalf("CreateStandard: %v", err)
	}
	if len(test.Questions) != 10 {
		t.Fatalf("want 10 questions, got %d", len(test.Questions))
	}

	// 40% ceil, 40% ceil, remainder: 4 easy, 4 medium, 2 hard.
	counts := map[exam.Level]int{}
	for _, q := range test.Questions {
		counts[q.Level]++
	}
	if counts[exam.LevelEasy] != 4 || counts[exam.LevelMedium] != 4 || counts[exam.LevelHard] != 2 {
		t.Fatalf("distribution = %v, want easy=4 medium=4 hard=2", counts)
	}
	if test.NumberOfQuestions != 10 {
		t.Fatalf("NumberOfQuestions = %d, want 10", test.NumberOfQuestions)
	}
}

func TestCreateStandardRoundsUp(t *testing.T) {
	store := newFakeStore()
	seedLevels(store, 20, 20, 20)
	svc := exam.NewService(store, newFakeCache(), time.Hour)

	// 7 questions: ceil(2.8)=3 easy, 3 medium, 1 hard.
	test, err := svc.CreateStandard(context.Background(), exam.CreateRequest{
		UserID: "u1", CategoryID: "cat1", TestType: exam.TestNoTimer, NumberOfQuestions: 7,
	})
	if err != nil {
		t.Fatalf("CreateStandard: %v", err)
	}
	counts := map[exam.Level]int{}
	for _, q := range test.Questions {
		counts[q.Level]++
	}
	if counts[exam.LevelEasy] != 3 || counts[exam.LevelMedium] != 3 || counts[exam.LevelHard] != 1 {
		t.Fatalf("distribution = %v, want easy=3 medium=3 hard=1", counts)
	}
}

func TestCreateStandardTakesWholePoolWhenShort(t *testing.T) {
	store := newFakeStore()
	seedLevels(store, 3, 2, 1)
	svc := exam.NewService(store, newFakeCache(), time.Hour)

	test, err := svc.CreateStandard(context.Background(), exam.CreateRequest{
		UserID: "u1", CategoryID: "cat1", TestType: exam.TestTimer, IsTimed: true, Duration: 30, NumberOfQuestions: 50,
	})
	if err != nil {
		t.Fatalf("CreateStandard: %v", err)
	}
	if len(test.Questions) != 6 {
		t.Fatalf("want all 6 available questions, got %d", len(test.Questions))
	}
}

func TestCreateStandardUntimedZeroesDuration(t *testing.T) {
	store := newFakeStore()
	seedLevels(store, 5, 5, 5)
	svc := exam.NewService(store, newFakeCache(), time.Hour)

	test, err := svc.CreateStandard(context.Background(), exam.CreateRequest{
		UserID: "u1", CategoryID: "cat1", TestType: exam.TestNoTimer, IsTimed: false, Duration: 45, NumberOfQuestions: 5,
	})
	if err != nil {
		t.Fatalf("CreateStandard: %v", err)
	}
	if test.Duration != 0 {
		t.Fatalf("untimed test duration = %d, want 0", test.Duration)
	}
}

func TestCreateStandardCacheHitSkipsStore(t *testing.T) {
	store := newFakeStore()
	seedLevels(store, 20, 20, 20)
	c := newFakeCache()
	svc := exam.NewService(store, c, time.Hour)

	req := exam.CreateRequest{UserID: "u1", CategoryID: "cat1", TestType: exam.TestNoTimer, NumberOfQuestions: 10}
	if _, err := svc.CreateStandard(context.Background(), req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	countsBefore, fetchesBefore := store.countCalls, store.fetchCalls

	if _, err := svc.CreateStandard(context.Background(), req); err != nil {
		t.Fatalf("second create: %v", err)
	}
	if store.countCalls != countsBefore || store.fetchCalls != fetchesBefore {
		t.Fatalf("cache hit still queried the store (counts %d->%d, fetches %d->%d)",
			countsBefore, store.countCalls, fetchesBefore, store.fetchCalls)
	}
}

func TestCreateStandardNeverCachesAnswers(t *testing.T) {
	store := newFakeStore()
	seedLevels(store, 5, 5, 5)
	svc := exam.NewService(store, newFakeCache(), time.Hour)

	test, err := svc.CreateStandard(context.Background(), exam.CreateRequest{
		UserID: "u1", CategoryID: "cat1", TestType: exam.TestNoTimer, NumberOfQuestions: 6,
	})
	if err != nil {
		t.Fatalf("CreateStandard: %v", err)
	}
	for _, q := range test.Questions {
		if len(q.Answer) != 0 {
			t.Fatalf("assembled question %s leaked canonical answers", q.ID)
		}
	}
}

/* ---------------- Simulation path ---------------- */

func seedArity(s *fakeStore, single, multiple int) {
	mk := func(multi bool, n int, prefix string) []exam.Question {
		qs := make([]exam.Question, n)
		for i := range qs {
			qs[i] = exam.Question{
				ID:               fmt.Sprintf("%s-%d", prefix, i),
				Title:            fmt.Sprintf("q %d", i),
				IsMultipleAnswer: multi,
				Answer:           []string{"c1"},
			}
		}
		return qs
	}
	s.byArity[false] = mk(false, single, "s")
	s.byArity[true] = mk(true, multiple, "m")
}

func TestCreateSimulation(t *testing.T) {
	store := newFakeStore()
	seedArity(store, 60, 200)
	svc := exam.NewService(store, newFakeCache(), time.Hour)

	test, err := svc.CreateSimulation(context.Background(), exam.CreateRequest{
		UserID: "u1", CategoryID: "cat1", TestType: exam.TestSimulation, Duration: 180,
	}, false)
	if err != nil {
		t.Fatalf("CreateSimulation: %v", err)
	}
	if len(test.SingleQuestions) != 50 || len(test.MultipleQuestions) != 150 {
		t.Fatalf("pools = %d/%d, want 50/150", len(test.SingleQuestions), len(test.MultipleQuestions))
	}
	if test.NumberOfQuestions != 200 {
		t.Fatalf("NumberOfQuestions = %d, want 200", test.NumberOfQuestions)
	}
}

func TestCreateSimulationInsufficientPoolPersistsNothing(t *testing.T) {
	store := newFakeStore()
	seedArity(store, 49, 200)
	svc := exam.NewService(store, newFakeCache(), time.Hour)

	_, err := svc.CreateSimulation(context.Background(), exam.CreateRequest{
		UserID: "u1", TestType: exam.TestSimulation,
	}, false)
	if err == nil {
		t.Fatal("want insufficiency error, got nil")
	}
	if len(store.simTests) != 0 {
		t.Fatalf("insufficient pool still persisted %d tests", len(store.simTests))
	}
}

func TestViewStandardRedactsUntilCompleted(t *testing.T) {
	store := newFakeStore()
	store.tests["t1"] = &exam.Test{
		ID: "t1", TestType: exam.TestNoTimer, IsCompleted: false,
		Questions: []exam.Question{{ID: "q1", Answer: []string{"c1"}}},
		Result:    exam.Result{Score: 90, CorrectAnswers: 9},
	}
	svc := exam.NewService(store, newFakeCache(), time.Hour)

	view, err := svc.ViewStandard(context.Background(), "t1", exam.TestNoTimer)
	if err != nil {
		t.Fatalf("ViewStandard: %v", err)
	}
	if len(view.Questions[0].Answer) != 0 {
		t.Fatal("incomplete test leaked canonical answers")
	}
	if view.Score != 0 || view.CorrectAnswers != 0 {
		t.Fatal("incomplete test leaked metrics")
	}

	store.tests["t1"].IsCompleted = true
	view, err = svc.ViewStandard(context.Background(), "t1", exam.TestNoTimer)
	if err != nil {
		t.Fatalf("ViewStandard completed: %v", err)
	}
	if len(view.Questions[0].Answer) == 0 {
		t.Fatal("completed test should include canonical answers")
	}
}
