package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/quizdoc/quizdoc/internal/apperr"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) CountByLevel(ctx context.Context, categoryID string, level Level) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM questions q
		 JOIN categories c ON c.id = q.category_id
		 WHERE q.category_id=$1 AND q.level=$2 AND c.deleted=FALSE`,
		categoryID, string(level)).Scan(&n)
	return n, err
}

func (s *SQLStore) FetchByLevel(ctx context.Context, categoryID string, level Level, limit int) ([]Question, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT q.id, q.title, q.question, q.level, q.is_multiple_answer, q.paragraph, q.answers_json
		 FROM questions q
		 JOIN categories c ON c.id = q.category_id
		 WHERE q.category_id=$1 AND q.level=$2 AND c.deleted=FALSE
		 ORDER BY q.created_at
		 LIMIT $3`,
		categoryID, string(level), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collectQuestions(ctx, rows)
}

func (s *SQLStore) FetchByArity(ctx context.Context, categoryID string, multiple bool, limit int) ([]Question, error) {
	q := `SELECT q.id, q.title, q.question, q.level, q.is_multiple_answer, q.paragraph, q.answers_json
	      FROM questions q
	      JOIN categories c ON c.id = q.category_id
	      WHERE q.is_multiple_answer=$1 AND c.deleted=FALSE`
	args := []any{multiple}
	if categoryID != "" {
		q += ` AND q.category_id=$2 ORDER BY q.created_at LIMIT $3`
		args = append(args, categoryID, limit)
	} else {
		q += ` ORDER BY q.created_at LIMIT $2`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collectQuestions(ctx, rows)
}

// collectQuestions scans question rows and attaches their choices.
func (s *SQLStore) collectQuestions(ctx context.Context, rows *sql.Rows) ([]Question, error) {
	var qs []Question
	for rows.Next() {
		var q Question
		var level, answersJSON string
		if err := rows.Scan(&q.ID, &q.Title, &q.Text, &level, &q.IsMultipleAnswer, &q.Paragraph, &answersJSON); err != nil {
			return nil, err
		}
		q.Level = Level(level)
		if err := json.Unmarshal([]byte(answersJSON), &q.Answer); err != nil {
			q.Answer = nil
		}
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return qs, s.attachChoices(ctx, qs)
}

func (s *SQLStore) attachChoices(ctx context.Context, qs []Question) error {
	if len(qs) == 0 {
		return nil
	}
	idx := make(map[string]int, len(qs))
	placeholders := make([]string, len(qs))
	args := make([]any, len(qs))
	for i := range qs {
		idx[qs[i].ID] = i
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = qs[i].ID
		qs[i].Choices = []Choice{}
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question_id, text FROM choices WHERE question_id IN (`+strings.Join(placeholders, ",")+`) ORDER BY id`,
		args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c Choice
		var qid string
		if err := rows.Scan(&c.ID, &qid, &c.Text); err != nil {
			return err
		}
		if i, ok := idx[qid]; ok {
			qs[i].Choices = append(qs[i].Choices, c)
		}
	}
	return rows.Err()
}

func (s *SQLStore) CreateTest(ctx context.Context, t *Test) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO tests (id, user_id, category_id, test_type, number_of_questions, duration, is_timed, is_completed, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,FALSE,$8)`,
		t.ID, t.UserID, t.CategoryID, string(t.TestType), t.NumberOfQuestions, t.Duration, t.IsTimed, t.CreatedAt)
	if err != nil {
		return err
	}
	for i, q := range t.Questions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO test_questions (test_id, question_id, position) VALUES ($1,$2,$3)`,
			t.ID, q.ID, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) CreateSimulationTest(ctx context.Context, t *SimulationTest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO simulation_tests (id, user_id, category_id, number_of_questions, duration, is_completed, created_at)
		 VALUES ($1,$2,$3,$4,$5,FALSE,$6)`,
		t.ID, t.UserID, t.CategoryID, t.NumberOfQuestions, t.Duration, t.CreatedAt)
	if err != nil {
		return err
	}
	for i, q := range t.SingleQuestions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO simulation_test_questions (test_id, question_id, pool, position) VALUES ($1,$2,'single',$3)`,
			t.ID, q.ID, i); err != nil {
			return err
		}
	}
	for i, q := range t.MultipleQuestions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO simulation_test_questions (test_id, question_id, pool, position) VALUES ($1,$2,'multiple',$3)`,
			t.ID, q.ID, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) GetTest(ctx context.Context, id string, tt TestType) (*Test, error) {
	var t Test
	var testType, answersJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, test_type, number_of_questions, duration, is_timed, is_completed,
		        user_answers_json, score, correct_answers, incorrect_answers, accuracy, percentage, total_time_taken, created_at
		 FROM tests WHERE id=$1 AND test_type=$2`,
		id, string(tt)).Scan(
		&t.ID, &t.UserID, &t.CategoryID, &testType, &t.NumberOfQuestions, &t.Duration, &t.IsTimed, &t.IsCompleted,
		&answersJSON, &t.Score, &t.CorrectAnswers, &t.IncorrectAnswers, &t.Accuracy, &t.Percentage, &t.TotalTimeTaken, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("invalid test id")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	t.TestType = TestType(testType)
	if err := json.Unmarshal([]byte(answersJSON), &t.UserAnswers); err != nil {
		t.UserAnswers = [][]string{}
	}

	t.Questions, err = s.testQuestions(ctx,
		`SELECT q.id, q.title, q.question, q.level, q.is_multiple_answer, q.paragraph, q.answers_json
		 FROM test_questions tq JOIN questions q ON q.id = tq.question_id
		 WHERE tq.test_id=$1 ORDER BY tq.position`, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &t, nil
}

func (s *SQLStore) GetSimulationTest(ctx context.Context, id string) (*SimulationTest, error) {
	var t SimulationTest
	var answersJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, number_of_questions, duration, is_completed,
		        user_answers_json, score, correct_answers, incorrect_answers, accuracy, percentage, total_time_taken, created_at
		 FROM simulation_tests WHERE id=$1`,
		id).Scan(
		&t.ID, &t.UserID, &t.CategoryID, &t.NumberOfQuestions, &t.Duration, &t.IsCompleted,
		&answersJSON, &t.Score, &t.CorrectAnswers, &t.IncorrectAnswers, &t.Accuracy, &t.Percentage, &t.TotalTimeTaken, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("invalid test id")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if err := json.Unmarshal([]byte(answersJSON), &t.UserAnswers); err != nil {
		t.UserAnswers = [][]string{}
	}

	t.SingleQuestions, err = s.testQuestions(ctx,
		`SELECT q.id, q.title, q.question, q.level, q.is_multiple_answer, q.paragraph, q.answers_json
		 FROM simulation_test_questions tq JOIN questions q ON q.id = tq.question_id
		 WHERE tq.test_id=$1 AND tq.pool='single' ORDER BY tq.position`, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	t.MultipleQuestions, err = s.testQuestions(ctx,
		`SELECT q.id, q.title, q.question, q.level, q.is_multiple_answer, q.paragraph, q.answers_json
		 FROM simulation_test_questions tq JOIN questions q ON q.id = tq.question_id
		 WHERE tq.test_id=$1 AND tq.pool='multiple' ORDER BY tq.position`, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &t, nil
}

func (s *SQLStore) testQuestions(ctx context.Context, query, testID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, query, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collectQuestions(ctx, rows)
}

func (s *SQLStore) CompleteTest(ctx context.Context, id string, tt TestType, answers [][]string, res Result) error {
	buf, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	table := "tests"
	if tt == TestSimulation {
		table = "simulation_tests"
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE `+table+` SET is_completed=TRUE, user_answers_json=$1, score=$2, correct_answers=$3,
		        incorrect_answers=$4, accuracy=$5, percentage=$6, total_time_taken=$7
		 WHERE id=$8`,
		string(buf), res.Score, res.CorrectAnswers, res.IncorrectAnswers, res.Accuracy, res.Percentage, res.TotalTimeTaken, id)
	return err
}

func (s *SQLStore) ListByMonth(ctx context.Context, userID string, from, to int64) ([]TestSummary, []TestSummary, error) {
	standard, err := s.listSummaries(ctx,
		`SELECT t.id, t.test_type, COALESCE(c.name,''), t.number_of_questions, t.is_completed, t.correct_answers, t.created_at
		 FROM tests t LEFT JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id=$1 AND t.created_at BETWEEN $2 AND $3
		 ORDER BY t.created_at DESC`, userID, from, to)
	if err != nil {
		return nil, nil, err
	}
	simulation, err := s.listSummaries(ctx,
		`SELECT t.id, 'SIMULATION', COALESCE(c.name,''), t.number_of_questions, t.is_completed, t.correct_answers, t.created_at
		 FROM simulation_tests t LEFT JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id=$1 AND t.created_at BETWEEN $2 AND $3
		 ORDER BY t.created_at DESC`, userID, from, to)
	if err != nil {
		return nil, nil, err
	}
	return standard, simulation, nil
}

func (s *SQLStore) listSummaries(ctx context.Context, query string, args ...any) ([]TestSummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []TestSummary{}
	for rows.Next() {
		var ts TestSummary
		var tt string
		if err := rows.Scan(&ts.ID, &tt, &ts.CategoryName, &ts.NumberOfQuestions, &ts.IsCompleted, &ts.CorrectAnswers, &ts.CreatedAt); err != nil {
			return nil, err
		}
		ts.TestType = TestType(tt)
		out = append(out, ts)
	}
	return out, rows.Err()
}
