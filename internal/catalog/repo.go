package catalog

import "context"

// Store is the persistence surface for categories and topics. The SQL
// implementation lives in store_sql.go; tests supply in-memory fakes.
type Store interface {
	CreateCategory(ctx context.Context, c *Category) error
	// ListCategories returns non-deleted categories filtered by the
	// prev-topic flag.
	ListCategories(ctx context.Context, prevTopic bool) ([]Category, error)
	ListDeletedCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (*Category, error)
	// LiveCategoryByName resolves a non-deleted category by exact name.
	LiveCategoryByName(ctx context.Context, name string) (*Category, error)
	// UpdateCategory rewrites name, prev-topic and deleted flags.
	UpdateCategory(ctx context.Context, c *Category) error

	CreateTopic(ctx context.Context, t *Topic) error
	ListTopics(ctx context.Context) ([]Topic, error)
	GetTopic(ctx context.Context, id string) (*Topic, error)
	TopicByName(ctx context.Context, name string) (*Topic, error)
	UpdateTopic(ctx context.Context, t *Topic) error
	// DeleteTopic removes the topic and cascades its session rows.
	DeleteTopic(ctx context.Context, id string) error
}
