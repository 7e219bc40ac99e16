package exam

import "context"

// Store is the content-store surface the assembly and scoring paths need.
// The SQL implementation lives in store_sql.go; tests supply in-memory
// fakes.
type Store interface {
	// CountByLevel counts live-category questions at one difficulty.
	CountByLevel(ctx context.Context, categoryID string, level Level) (int, error)
	// FetchByLevel fetches up to limit questions (with choices, no answers
	// needed) at one difficulty. limit <= 0 fetches none.
	FetchByLevel(ctx context.Context, categoryID string, level Level, limit int) ([]Question, error)
	// FetchByArity fetches up to limit single- or multiple-answer
	// questions; categoryID "" leaves the pool unscoped.
	FetchByArity(ctx context.Context, categoryID string, multiple bool, limit int) ([]Question, error)

	CreateTest(ctx context.Context, t *Test) error
	CreateSimulationTest(ctx context.Context, t *SimulationTest) error

	// GetTest returns the test with its ordered question set including
	// canonical answers; callers redact before serving.
	GetTest(ctx context.Context, id string, tt TestType) (*Test, error)
	GetSimulationTest(ctx context.Context, id string) (*SimulationTest, error)

	// CompleteTest marks the instance submitted and persists answers and
	// metrics in one update.
	CompleteTest(ctx context.Context, id string, tt TestType, answers [][]string, res Result) error

	// ListByMonth returns standard and simulation summaries for a user
	// created within [from, to].
	ListByMonth(ctx context.Context, userID string, from, to int64) (standard, simulation []TestSummary, err error)
}
