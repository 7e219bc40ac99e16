package question_test

import (
	"context"
	"errors"
	"testing"

	"github.com/quizdoc/quizdoc/internal/apperr"
	"github.com/quizdoc/quizdoc/internal/question"
)

func seedQuestion(store *fakeQuestionStore, id string) {
	store.questions[id] = &question.Question{
		ID:         id,
		CategoryID: "cat-1",
		Text:       "q?",
		Level:      "EASY",
		Choices:    []question.Choice{{ID: "c1", Text: "yes"}, {ID: "c2", Text: "no"}},
		Answer:     []string{"c1"},
	}
}

func TestFlagResolveIsTerminal(t *testing.T) {
	store := newFakeQuestionStore()
	seedQuestion(store, "q1")
	svc := question.NewService(store, nopCache{})
	ctx := context.Background()

	f, err := svc.FlagQuestion(ctx, "q1", "u1", "the answer looks wrong")
	if err != nil {
		t.Fatal(err)
	}

	resolved, err := svc.ResolveFlag(ctx, f.ID, "fixed the answer")
	if err != nil {
		t.Fatal(err)
	}
	if !resolved.Resolved || resolved.Comment != "fixed the answer" {
		t.Fatalf("unexpected resolution state: %+v", resolved)
	}

	if _, err := svc.ResolveFlag(ctx, f.ID, "again"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict on second resolve, got %v", err)
	}
}

func TestFlagRequiresExistingQuestion(t *testing.T) {
	svc := question.NewService(newFakeQuestionStore(), nopCache{})
	_, err := svc.FlagQuestion(context.Background(), "missing", "u1", "broken")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListFlagsSplitsByResolution(t *testing.T) {
	store := newFakeQuestionStore()
	seedQuestion(store, "q1")
	svc := question.NewService(store, nopCache{})
	ctx := context.Background()

	a, _ := svc.FlagQuestion(ctx, "q1", "u1", "typo in choice 2")
	if _, err := svc.FlagQuestion(ctx, "q1", "u2", "duplicate question"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ResolveFlag(ctx, a.ID, "done"); err != nil {
		t.Fatal(err)
	}

	open, _ := svc.ListFlags(ctx, false)
	closed, _ := svc.ListFlags(ctx, true)
	if len(open) != 1 || len(closed) != 1 {
		t.Fatalf("expected 1 open and 1 resolved, got %d/%d", len(open), len(closed))
	}
}

func TestUpdateQuestionValidatesAnswers(t *testing.T) {
	store := newFakeQuestionStore()
	seedQuestion(store, "q1")
	svc := question.NewService(store, nopCache{})

	q, _ := store.GetQuestion(context.Background(), "q1")
	q.Answer = []string{"not-a-choice"}
	_, err := svc.Update(context.Background(), q)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateQuestionDerivesMultipleAnswer(t *testing.T) {
	store := newFakeQuestionStore()
	seedQuestion(store, "q1")
	svc := question.NewService(store, nopCache{})

	q, _ := store.GetQuestion(context.Background(), "q1")
	q.Answer = []string{"c1", "c2"}
	got, err := svc.Update(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsMultipleAnswer {
		t.Fatal("two answers should mark the question multiple-answer")
	}
}
