package progress

import "context"

// Store is the persistence surface for learning sessions. The SQL
// implementation lives in store_sql.go; tests supply in-memory fakes.
type Store interface {
	// ListSessions returns every session for the user, topics included.
	ListSessions(ctx context.Context, userID string) ([]Session, error)
	GetSession(ctx context.Context, id, userID string) (*Session, error)
	// CreateSession resolves topicIDs against the topics table and
	// creates the session with every counter at page 1.
	CreateSession(ctx context.Context, userID string, topicIDs []string) (*Session, error)
	// UpdateCurrentPage persists one topic's page counter.
	UpdateCurrentPage(ctx context.Context, sessionID, topicID string, page int) error
	// DeleteSession removes the session and cascades its topic rows.
	DeleteSession(ctx context.Context, id, userID string) error
}
