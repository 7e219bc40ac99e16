package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quizdoc/quizdoc/internal/apperr"
	"github.com/quizdoc/quizdoc/internal/exam"
	"github.com/quizdoc/quizdoc/internal/user"
)

type fakeUserStore struct {
	profiles map[string]*user.Profile
	sum      float64
	done     int
	taken    int
	ranks    []user.RankRow
	updates  []user.ProfileUpdate
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{profiles: map[string]*user.Profile{}}
}

func (f *fakeUserStore) GetProfile(_ context.Context, id string) (*user.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeUserStore) ApplyUpdate(_ context.Context, id string, upd user.ProfileUpdate) error {
	f.updates = append(f.updates, upd)
	p := f.profiles[id]
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.University != nil {
		p.University = *upd.University
	}
	return nil
}

func (f *fakeUserStore) TestAggregates(_ context.Context, _ string) (float64, int, int, error) {
	return f.sum, f.done, f.taken, nil
}

func (f *fakeUserStore) Leaderboard(_ context.Context, n int) ([]user.RankRow, error) {
	if len(f.ranks) > n {
		return f.ranks[:n], nil
	}
	return f.ranks, nil
}

func TestStatsGradeScale(t *testing.T) {
	store := newFakeUserStore()
	store.profiles["u1"] = &user.Profile{ID: "u1"}
	// three completed tests at 80, 90, 70 percent
	store.sum, store.done, store.taken = 240, 3, 5
	svc := user.NewService(store, nil)

	st, err := svc.Stats(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if st.Grade != "8.00" {
		t.Fatalf("expected grade 8.00, got %s", st.Grade)
	}
	if st.TestsTaken != 5 || st.TestsCompleted != 3 {
		t.Fatalf("unexpected counts: %+v", st)
	}
}

func TestStatsZeroWithoutTests(t *testing.T) {
	store := newFakeUserStore()
	store.profiles["u1"] = &user.Profile{ID: "u1"}
	svc := user.NewService(store, nil)

	st, err := svc.Stats(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if st.Grade != "0.00" {
		t.Fatalf("expected grade 0.00, got %s", st.Grade)
	}
}

func TestUpdateProfileRequiresFields(t *testing.T) {
	store := newFakeUserStore()
	store.profiles["u1"] = &user.Profile{ID: "u1"}
	svc := user.NewService(store, nil)

	_, err := svc.UpdateProfile(context.Background(), "u1", user.ProfileUpdate{})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.updates) != 0 {
		t.Fatal("empty update reached the store")
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	store := newFakeUserStore()
	store.profiles["u1"] = &user.Profile{ID: "u1", Name: "old", University: "uni"}
	svc := user.NewService(store, nil)

	name := "new"
	p, err := svc.UpdateProfile(context.Background(), "u1", user.ProfileUpdate{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "new" || p.University != "uni" {
		t.Fatalf("partial update touched other fields: %+v", p)
	}
}

// monthStore records the range History asked for.
type monthStore struct {
	from, to int64
}

func (m *monthStore) CountByLevel(context.Context, string, exam.Level) (int, error) { return 0, nil }
func (m *monthStore) FetchByLevel(context.Context, string, exam.Level, int) ([]exam.Question, error) {
	return nil, nil
}
func (m *monthStore) FetchByArity(context.Context, string, bool, int) ([]exam.Question, error) {
	return nil, nil
}
func (m *monthStore) CreateTest(context.Context, *exam.Test) error { return nil }
func (m *monthStore) CreateSimulationTest(context.Context, *exam.SimulationTest) error {
	return nil
}
func (m *monthStore) GetTest(context.Context, string, exam.TestType) (*exam.Test, error) {
	return nil, nil
}
func (m *monthStore) GetSimulationTest(context.Context, string) (*exam.SimulationTest, error) {
	return nil, nil
}
func (m *monthStore) CompleteTest(context.Context, string, exam.TestType, [][]string, exam.Result) error {
	return nil
}
func (m *monthStore) ListByMonth(_ context.Context, _ string, from, to int64) ([]exam.TestSummary, []exam.TestSummary, error) {
	m.from, m.to = from, to
	return nil, nil, nil
}

func TestHistoryMonthFilter(t *testing.T) {
	store := newFakeUserStore()
	ms := &monthStore{}
	svc := user.NewService(store, exam.NewService(ms, nil, time.Hour))

	if _, _, err := svc.History(context.Background(), "u1", "jan-24"); err != nil {
		t.Fatal(err)
	}
	wantFrom := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	wantTo := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC).Add(-time.Second).Unix()
	if ms.from != wantFrom || ms.to != wantTo {
		t.Fatalf("queried [%d, %d], want [%d, %d]", ms.from, ms.to, wantFrom, wantTo)
	}

	_, _, err := svc.History(context.Background(), "u1", "2024-01")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for bad month, got %v", err)
	}
}

func TestLeaderboardFormatsGrades(t *testing.T) {
	store := newFakeUserStore()
	store.ranks = []user.RankRow{
		{UserID: "u1", Name: "ana", Avg: 95},
		{UserID: "u2", Name: "bob", Avg: 0},
	}
	svc := user.NewService(store, nil)

	ranks, err := svc.Leaderboard(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ranks) != 2 || ranks[0].Grade != "9.50" || ranks[1].Grade != "0.00" {
		t.Fatalf("unexpected leaderboard: %+v", ranks)
	}
}
