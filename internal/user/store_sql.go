package user

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quizdoc/quizdoc/internal/apperr"
)

// SQLStore persists profiles and computes aggregates in SQL.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) GetProfile(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, study_program, speciality, work_place, university, promotion, image, is_premium, created_at
		   FROM users WHERE id = $1`, id).
		Scan(&p.ID, &p.Email, &p.Name, &p.StudyProgram, &p.Speciality, &p.WorkPlace,
			&p.University, &p.Promotion, &p.Image, &p.IsPremium, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (s *SQLStore) ApplyUpdate(ctx context.Context, id string, upd ProfileUpdate) error {
	set := ""
	args := []any{}
	add := func(col string, v *string) {
		if v == nil {
			return
		}
		if set != "" {
			set += ", "
		}
		args = append(args, *v)
		set += fmt.Sprintf("%s = $%d", col, len(args))
	}
	add("name", upd.Name)
	add("study_program", upd.StudyProgram)
	add("speciality", upd.Speciality)
	add("work_place", upd.WorkPlace)
	add("university", upd.University)
	add("promotion", upd.Promotion)
	add("image", upd.Image)
	if set == "" {
		return nil
	}
	args = append(args, id)
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, set, len(args)), args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (s *SQLStore) TestAggregates(ctx context.Context, userID string) (float64, int, int, error) {
	var sum float64
	var completed, taken int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN is_completed THEN percentage ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0),
		        COUNT(*)
		   FROM tests WHERE user_id = $1`, userID).
		Scan(&sum, &completed, &taken)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("test aggregates: %w", err)
	}
	return sum, completed, taken, nil
}

func (s *SQLStore) Leaderboard(ctx context.Context, n int) ([]RankRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.image, COALESCE(AVG(CASE WHEN t.is_completed THEN t.percentage END), 0)
		   FROM users u
		   LEFT JOIN tests t ON t.user_id = u.id
		  WHERE u.role = 'learner'
		  GROUP BY u.id, u.name, u.image
		  ORDER BY 4 DESC, u.name
		  LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()
	var out []RankRow
	for rows.Next() {
		var r RankRow
		if err := rows.Scan(&r.UserID, &r.Name, &r.Image, &r.Avg); err != nil {
			return nil, fmt.Errorf("scan rank: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
