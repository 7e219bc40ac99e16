package question

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/quizdoc/quizdoc/internal/apperr"
)

// SQLStore persists questions, choices and flags in the relational store.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func scanQuestion(row interface{ Scan(...any) error }) (*Question, error) {
	var q Question
	var answers string
	err := row.Scan(&q.ID, &q.CategoryID, &q.Title, &q.Text, &q.Paragraph,
		&q.IsMultipleAnswer, &q.Level, &answers, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(answers), &q.Answer); err != nil {
		return nil, fmt.Errorf("decode answers for %s: %w", q.ID, err)
	}
	return &q, nil
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (*Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, category_id, title, question, paragraph, is_multiple_answer, level, answers_json, created_at
		   FROM questions WHERE id = $1`, id)
	q, err := scanQuestion(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("question not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	if err := s.attachChoices(ctx, []*Question{q}); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *SQLStore) ListQuestions(ctx context.Context, categoryID string, offset, limit int) ([]Question, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM questions WHERE category_id = $1`, categoryID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category_id, title, question, paragraph, is_multiple_answer, level, answers_json, created_at
		   FROM questions WHERE category_id = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`,
		categoryID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	// Take pointers only once out has stopped growing; appends above may
	// move the backing array.
	refs := make([]*Question, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := s.attachChoices(ctx, refs); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *SQLStore) attachChoices(ctx context.Context, qs []*Question) error {
	if len(qs) == 0 {
		return nil
	}
	byID := make(map[string]*Question, len(qs))
	args := make([]any, 0, len(qs))
	ph := ""
	for i, q := range qs {
		byID[q.ID] = q
		if i > 0 {
			ph += ", "
		}
		ph += fmt.Sprintf("$%d", i+1)
		args = append(args, q.ID)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question_id, text FROM choices WHERE question_id IN (`+ph+`) ORDER BY id`, args...)
	if err != nil {
		return fmt.Errorf("load choices: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c Choice
		var qid string
		if err := rows.Scan(&c.ID, &qid, &c.Text); err != nil {
			return fmt.Errorf("scan choice: %w", err)
		}
		if q := byID[qid]; q != nil {
			q.Choices = append(q.Choices, c)
		}
	}
	return rows.Err()
}

func (s *SQLStore) UpdateQuestion(ctx context.Context, q *Question) error {
	answers, err := json.Marshal(q.Answer)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE questions SET title = $1, question = $2, paragraph = $3, is_multiple_answer = $4,
		        level = $5, answers_json = $6 WHERE id = $7`,
		q.Title, q.Text, q.Paragraph, q.IsMultipleAnswer, q.Level, string(answers), q.ID)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("question not found")
	}

	// Upsert submitted choices, then drop the ones no longer submitted.
	keep := make([]any, 0, len(q.Choices)+1)
	keep = append(keep, q.ID)
	ph := ""
	for i, c := range q.Choices {
		res, err := tx.ExecContext(ctx,
			`UPDATE choices SET text = $1 WHERE id = $2 AND question_id = $3`, c.Text, c.ID, q.ID)
		if err != nil {
			return fmt.Errorf("update choice: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO choices (id, question_id, text) VALUES ($1, $2, $3)`, c.ID, q.ID, c.Text); err != nil {
				return fmt.Errorf("insert choice: %w", err)
			}
		}
		if i > 0 {
			ph += ", "
		}
		ph += fmt.Sprintf("$%d", i+2)
		keep = append(keep, c.ID)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM choices WHERE question_id = $1 AND id NOT IN (`+ph+`)`, keep...); err != nil {
		return fmt.Errorf("prune choices: %w", err)
	}
	return tx.Commit()
}

func (s *SQLStore) SetParagraph(ctx context.Context, id, paragraph string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE questions SET paragraph = $1 WHERE id = $2`, paragraph, id)
	if err != nil {
		return fmt.Errorf("set paragraph: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("question not found")
	}
	return nil
}

func (s *SQLStore) InsertQuestions(ctx context.Context, qs []Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for i := range qs {
		q := &qs[i]
		answers, err := json.Marshal(q.Answer)
		if err != nil {
			return fmt.Errorf("encode answers: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO questions (id, category_id, title, question, paragraph, is_multiple_answer, level, answers_json, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			q.ID, q.CategoryID, q.Title, q.Text, q.Paragraph, q.IsMultipleAnswer, q.Level, string(answers), q.CreatedAt); err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
		for _, c := range q.Choices {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO choices (id, question_id, text) VALUES ($1, $2, $3)`, c.ID, q.ID, c.Text); err != nil {
				return fmt.Errorf("insert choice: %w", err)
			}
		}
	}
	return tx.Commit()
}

func (s *SQLStore) CreateFlag(ctx context.Context, f *Flag) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO flags (id, question_id, user_id, description, resolved, comment, created_at)
		 VALUES ($1, $2, $3, $4, FALSE, '', $5)`,
		f.ID, f.QuestionID, f.UserID, f.Description, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert flag: %w", err)
	}
	return nil
}

func (s *SQLStore) ListFlags(ctx context.Context, resolved bool) ([]Flag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question_id, user_id, description, resolved, comment, created_at
		   FROM flags WHERE resolved = $1 ORDER BY created_at DESC`, resolved)
	if err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	defer rows.Close()
	var out []Flag
	for rows.Next() {
		var f Flag
		if err := rows.Scan(&f.ID, &f.QuestionID, &f.UserID, &f.Description, &f.Resolved, &f.Comment, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan flag: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetFlag(ctx context.Context, id string) (*Flag, error) {
	var f Flag
	err := s.db.QueryRowContext(ctx,
		`SELECT id, question_id, user_id, description, resolved, comment, created_at FROM flags WHERE id = $1`,
		id).Scan(&f.ID, &f.QuestionID, &f.UserID, &f.Description, &f.Resolved, &f.Comment, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("flag not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get flag: %w", err)
	}
	return &f, nil
}

func (s *SQLStore) ResolveFlag(ctx context.Context, id, comment string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE flags SET resolved = TRUE, comment = $1 WHERE id = $2`, comment, id)
	if err != nil {
		return fmt.Errorf("resolve flag: %w", err)
	}
	return nil
}
