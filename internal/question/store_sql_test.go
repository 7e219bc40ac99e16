package question_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quizdoc/quizdoc/internal/db"
	"github.com/quizdoc/quizdoc/internal/question"
)

func openTestStore(t *testing.T) *question.SQLStore {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	dbh, err := db.Open(ctx, db.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })

	if _, err := dbh.Exec(
		`INSERT INTO categories (id, name, prev_topic, deleted, created_at, updated_at) VALUES ('cat-1', 'cardiology', FALSE, FALSE, 0, 0)`,
	); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return question.NewSQLStore(dbh)
}

func seedStoredQuestions(t *testing.T, store *question.SQLStore, n int) {
	t.Helper()
	ctx := context.Background()
	qs := make([]question.Question, 0, n)
	for i := 0; i < n; i++ {
		first := question.Choice{ID: uuid.NewString(), Text: "yes"}
		second := question.Choice{ID: uuid.NewString(), Text: "no"}
		qs = append(qs, question.Question{
			ID:         uuid.NewString(),
			CategoryID: "cat-1",
			Title:      fmt.Sprintf("question %d", i),
			Text:       fmt.Sprintf("question %d?", i),
			Level:      "EASY",
			Choices:    []question.Choice{first, second},
			Answer:     []string{first.ID},
			CreatedAt:  int64(i),
		})
	}
	if err := store.InsertQuestions(ctx, qs); err != nil {
		t.Fatalf("insert questions: %v", err)
	}
}

func TestSQLListQuestionsAttachesAllChoices(t *testing.T) {
	store := openTestStore(t)
	// Enough rows that the result slice grows through several appends.
	seedStoredQuestions(t, store, 12)

	qs, total, err := store.ListQuestions(context.Background(), "cat-1", 0, 12)
	if err != nil {
		t.Fatal(err)
	}
	if total != 12 || len(qs) != 12 {
		t.Fatalf("expected 12 questions, got %d (total %d)", len(qs), total)
	}
	for i, q := range qs {
		if len(q.Choices) != 2 {
			t.Errorf("question %d (%s) returned %d choices, want 2", i, q.Title, len(q.Choices))
		}
		if len(q.Answer) != 1 {
			t.Errorf("question %d lost its answer set", i)
		}
	}
}

func TestSQLListQuestionsPages(t *testing.T) {
	store := openTestStore(t)
	seedStoredQuestions(t, store, 7)

	qs, total, err := store.ListQuestions(context.Background(), "cat-1", 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if total != 7 || len(qs) != 2 {
		t.Fatalf("expected page of 2 with total 7, got %d (total %d)", len(qs), total)
	}
	for i, q := range qs {
		if len(q.Choices) != 2 {
			t.Errorf("question %d on second page returned %d choices, want 2", i, len(q.Choices))
		}
	}
}
