package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quizdoc/quizdoc/internal/apperr"
)

// SQLStore persists the catalog in the relational store.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) CreateCategory(ctx context.Context, c *Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, prev_topic, deleted, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.PrevTopic, c.Deleted, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *SQLStore) scanCategories(rows *sql.Rows) ([]Category, error) {
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.PrevTopic, &c.Deleted, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListCategories(ctx context.Context, prevTopic bool) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, prev_topic, deleted, created_at, updated_at
		   FROM categories WHERE deleted = FALSE AND prev_topic = $1 ORDER BY name`,
		prevTopic)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return s.scanCategories(rows)
}

func (s *SQLStore) ListDeletedCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, prev_topic, deleted, created_at, updated_at
		   FROM categories WHERE deleted = TRUE ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list deleted categories: %w", err)
	}
	return s.scanCategories(rows)
}

func (s *SQLStore) GetCategory(ctx context.Context, id string) (*Category, error) {
	var c Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, prev_topic, deleted, created_at, updated_at FROM categories WHERE id = $1`,
		id).Scan(&c.ID, &c.Name, &c.PrevTopic, &c.Deleted, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (s *SQLStore) LiveCategoryByName(ctx context.Context, name string) (*Category, error) {
	var c Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, prev_topic, deleted, created_at, updated_at
		   FROM categories WHERE name = $1 AND deleted = FALSE`,
		name).Scan(&c.ID, &c.Name, &c.PrevTopic, &c.Deleted, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("category by name: %w", err)
	}
	return &c, nil
}

func (s *SQLStore) UpdateCategory(ctx context.Context, c *Category) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = $1, prev_topic = $2, deleted = $3, updated_at = $4 WHERE id = $5`,
		c.Name, c.PrevTopic, c.Deleted, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (s *SQLStore) CreateTopic(ctx context.Context, t *Topic) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO topics (id, name, docfile_name, pages, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Name, t.DocfileName, t.Pages, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert topic: %w", err)
	}
	return nil
}

func (s *SQLStore) ListTopics(ctx context.Context) ([]Topic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, docfile_name, pages, created_at, updated_at FROM topics ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()
	var out []Topic
	for rows.Next() {
		var t Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.DocfileName, &t.Pages, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLStore) topicRow(ctx context.Context, query, arg string) (*Topic, error) {
	var t Topic
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&t.ID, &t.Name, &t.DocfileName, &t.Pages, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("topic not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get topic: %w", err)
	}
	return &t, nil
}

func (s *SQLStore) GetTopic(ctx context.Context, id string) (*Topic, error) {
	return s.topicRow(ctx,
		`SELECT id, name, docfile_name, pages, created_at, updated_at FROM topics WHERE id = $1`, id)
}

func (s *SQLStore) TopicByName(ctx context.Context, name string) (*Topic, error) {
	return s.topicRow(ctx,
		`SELECT id, name, docfile_name, pages, created_at, updated_at FROM topics WHERE name = $1`, name)
}

func (s *SQLStore) UpdateTopic(ctx context.Context, t *Topic) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE topics SET name = $1, docfile_name = $2, pages = $3, updated_at = $4 WHERE id = $5`,
		t.Name, t.DocfileName, t.Pages, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	return nil
}

func (s *SQLStore) DeleteTopic(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_topics WHERE topic_id = $1`, id); err != nil {
		return fmt.Errorf("delete topic sessions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	return tx.Commit()
}
