package user

import "context"

// Store is the persistence surface for profiles and aggregates. The SQL
// implementation lives in store_sql.go; tests supply in-memory fakes.
type Store interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)
	// ApplyUpdate writes the non-nil fields of upd.
	ApplyUpdate(ctx context.Context, id string, upd ProfileUpdate) error
	// TestAggregates returns completed-test percentage sum and counts for
	// the grade computation.
	TestAggregates(ctx context.Context, userID string) (percentageSum float64, completed, taken int, err error)
	// Leaderboard returns the top n users by average completed-test
	// percentage; users without tests rank with average 0.
	Leaderboard(ctx context.Context, n int) ([]RankRow, error)
}
