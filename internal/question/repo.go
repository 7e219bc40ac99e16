package question

import "context"

// Store is the persistence surface for question administration. The SQL
// implementation lives in store_sql.go; tests supply in-memory fakes.
type Store interface {
	GetQuestion(ctx context.Context, id string) (*Question, error)
	// ListQuestions pages through a category's questions. offset/limit
	// slice the list; the second return is the unpaged total.
	ListQuestions(ctx context.Context, categoryID string, offset, limit int) ([]Question, int, error)
	// UpdateQuestion rewrites the row, upserts submitted choices by id,
	// deletes choices missing from the submission, and replaces the
	// canonical answer set.
	UpdateQuestion(ctx context.Context, q *Question) error
	SetParagraph(ctx context.Context, id, paragraph string) error
	// InsertQuestions creates questions with their choices and answers in
	// one transaction; any failure rolls back the whole batch.
	InsertQuestions(ctx context.Context, qs []Question) error

	CreateFlag(ctx context.Context, f *Flag) error
	ListFlags(ctx context.Context, resolved bool) ([]Flag, error)
	GetFlag(ctx context.Context, id string) (*Flag, error)
	// ResolveFlag marks the flag resolved with the reviewer comment.
	ResolveFlag(ctx context.Context, id, comment string) error
}
