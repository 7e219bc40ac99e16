package progress

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quizdoc/quizdoc/internal/apperr"
)

// SQLStore persists learning sessions in the relational store.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) ListSessions(ctx context.Context, userID string) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, created_at FROM learning_sessions WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		topics, err := s.sessionTopics(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Topics = topics
	}
	return out, nil
}

func (s *SQLStore) GetSession(ctx context.Context, id, userID string) (*Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at FROM learning_sessions WHERE id = $1 AND user_id = $2`,
		id, userID).Scan(&sess.ID, &sess.UserID, &sess.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("learning session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	topics, err := s.sessionTopics(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	sess.Topics = topics
	return &sess, nil
}

func (s *SQLStore) sessionTopics(ctx context.Context, sessionID string) ([]TopicProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT st.id, st.topic_id, t.name, t.docfile_name, t.pages, st.current_page
		   FROM session_topics st
		   JOIN topics t ON t.id = st.topic_id
		  WHERE st.session_id = $1
		  ORDER BY st.topic_id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("session topics: %w", err)
	}
	defer rows.Close()

	var out []TopicProgress
	for rows.Next() {
		var tp TopicProgress
		if err := rows.Scan(&tp.ID, &tp.TopicID, &tp.Name, &tp.DocfileName, &tp.Pages, &tp.CurrentPage); err != nil {
			return nil, fmt.Errorf("scan session topic: %w", err)
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateSession(ctx context.Context, userID string, topicIDs []string) (*Session, error) {
	now := time.Now().Unix()
	sess := &Session{ID: uuid.NewString(), UserID: userID, CreatedAt: now}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO learning_sessions (id, user_id, created_at) VALUES ($1, $2, $3)`,
		sess.ID, sess.UserID, sess.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	for _, topicID := range topicIDs {
		var exists string
		err := tx.QueryRowContext(ctx, `SELECT id FROM topics WHERE id = $1`, topicID).Scan(&exists)
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("topic %s not found", topicID)
		}
		if err != nil {
			return nil, fmt.Errorf("check topic: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session_topics (id, session_id, topic_id, current_page, updated_at)
			 VALUES ($1, $2, $3, 1, $4)`,
			uuid.NewString(), sess.ID, topicID, now); err != nil {
			return nil, fmt.Errorf("insert session topic: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	topics, err := s.sessionTopics(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	sess.Topics = topics
	return sess, nil
}

func (s *SQLStore) UpdateCurrentPage(ctx context.Context, sessionID, topicID string, page int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE session_topics SET current_page = $1, updated_at = $2 WHERE session_id = $3 AND topic_id = $4`,
		page, time.Now().Unix(), sessionID, topicID)
	if err != nil {
		return fmt.Errorf("update current page: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("topic not part of this learning session")
	}
	return nil
}

func (s *SQLStore) DeleteSession(ctx context.Context, id, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_topics WHERE session_id = $1`, id); err != nil {
		return fmt.Errorf("delete session topics: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM learning_sessions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("learning session not found")
	}
	return tx.Commit()
}
