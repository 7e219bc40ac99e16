package user

import (
	"context"
	"fmt"
	"time"

	"github.com/quizdoc/quizdoc/internal/apperr"
	"github.com/quizdoc/quizdoc/internal/exam"
)

const leaderboardSize = 50

// Service owns profiles, performance stats and the leaderboard.
type Service struct {
	store Store
	exams *exam.Service
}

func NewService(store Store, exams *exam.Service) *Service {
	return &Service{store: store, exams: exams}
}

func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	return s.store.GetProfile(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*Profile, error) {
	if upd.Name == nil && upd.StudyProgram == nil && upd.Speciality == nil &&
		upd.WorkPlace == nil && upd.University == nil && upd.Promotion == nil && upd.Image == nil {
		return nil, apperr.Validation("no fields to update")
	}
	if _, err := s.store.GetProfile(ctx, id); err != nil {
		return nil, err
	}
	if err := s.store.ApplyUpdate(ctx, id, upd); err != nil {
		return nil, apperr.Storage(err)
	}
	return s.store.GetProfile(ctx, id)
}

// formatGrade maps an average percentage onto the 0-10 scale with two
// decimals.
func formatGrade(avgPercentage float64) string {
	return fmt.Sprintf("%.2f", avgPercentage/10)
}

func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	if _, err := s.store.GetProfile(ctx, userID); err != nil {
		return nil, err
	}
	sum, completed, taken, err := s.store.TestAggregates(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	st := &Stats{Grade: formatGrade(0), TestsTaken: taken, TestsCompleted: completed}
	if completed > 0 {
		st.Grade = formatGrade(sum / float64(completed))
	}
	return st, nil
}

func (s *Service) Leaderboard(ctx context.Context) ([]Rank, error) {
	rows, err := s.store.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	out := make([]Rank, 0, len(rows))
	for _, r := range rows {
		out = append(out, Rank{UserID: r.UserID, Name: r.Name, Image: r.Image, Grade: formatGrade(r.Avg)})
	}
	return out, nil
}

// History returns the user's tests for a month given as lowercase month
// abbreviation plus two-digit year, e.g. "jan-24". An empty month means
// the current one.
func (s *Service) History(ctx context.Context, userID, month string) (standard, simulation []exam.TestSummary, err error) {
	from, to, err := monthRange(month, time.Now())
	if err != nil {
		return nil, nil, err
	}
	return s.exams.History(ctx, userID, from, to)
}

func monthRange(month string, now time.Time) (time.Time, time.Time, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if month != "" {
		parsed, err := time.Parse("Jan-06", month)
		if err != nil {
			return time.Time{}, time.Time{}, apperr.Validation("month must look like jan-24")
		}
		start = time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return start, start.AddDate(0, 1, 0).Add(-time.Second), nil
}
