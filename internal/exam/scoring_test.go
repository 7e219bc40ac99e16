package exam_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/quizdoc/quizdoc/internal/exam"
)

func q(id string, answer ...string) exam.Question {
	return exam.Question{ID: id, Answer: answer}
}

func TestGradeSetEquality(t *testing.T) {
	questions := []exam.Question{q("q1", "A", "C")}

	cases := []struct {
		name    string
		given   []string
		correct bool
	}{
		{"exact order", []string{"A", "C"}, true},
		{"reversed order", []string{"C", "A"}, true},
		{"subset", []string{"A"}, false},
		{"superset", []string{"A", "B", "C"}, false},
		{"disjoint", []string{"B", "D"}, false},
		{"empty", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := exam.Grade(questions, [][]string{tc.given})
			want := 0
			if tc.correct {
				want = 1
			}
			if res.CorrectAnswers != want {
				t.Fatalf("correct = %d, want %d", res.CorrectAnswers, want)
			}
		})
	}
}

func TestGradeMetrics(t *testing.T) {
	questions := []exam.Question{
		q("q1", "A"),
		q("q2", "B"),
		q("q3", "C"),
	}
	answers := [][]string{{"A"}, {"X"}, {"C"}}

	res := exam.Grade(questions, answers)
	if res.CorrectAnswers != 2 || res.IncorrectAnswers != 1 {
		t.Fatalf("counts = %d/%d, want 2/1", res.CorrectAnswers, res.IncorrectAnswers)
	}
	if res.Score != 67 {
		t.Fatalf("score = %d, want round(2/3*100) = 67", res.Score)
	}
	if res.Percentage != res.Score {
		t.Fatalf("percentage = %d, want same as score %d", res.Percentage, res.Score)
	}
	if res.TotalTimeTaken != 0 {
		t.Fatalf("totalTimeTaken = %d, want 0", res.TotalTimeTaken)
	}
}

// Accuracy divides by the submitted-answer count, not the question count,
// so skipping questions inflates accuracy relative to score.
func TestGradeAccuracyUsesSubmittedCount(t *testing.T) {
	questions := []exam.Question{
		q("q1", "A"),
		q("q2", "B"),
		q("q3", "C"),
		q("q4", "D"),
	}
	// Learner answered only the first two.
	answers := [][]string{{"A"}, {"B"}}

	res := exam.Grade(questions, answers)
	if res.CorrectAnswers != 2 {
		t.Fatalf("correct = %d, want 2", res.CorrectAnswers)
	}
	if res.Score != 50 {
		t.Fatalf("score = %d, want 50", res.Score)
	}
	if res.Accuracy != 100 {
		t.Fatalf("accuracy = %d, want 100 (2 correct of 2 submitted)", res.Accuracy)
	}
}

func TestGradeIsPure(t *testing.T) {
	questions := []exam.Question{q("q1", "A"), q("q2", "B", "C")}
	answers := [][]string{{"A"}, {"C", "B"}}

	first := exam.Grade(questions, answers)
	second := exam.Grade(questions, answers)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("grading is not deterministic: %+v vs %+v", first, second)
	}
}

func TestSubmitSimulationGradesSinglePoolFirst(t *testing.T) {
	store := newFakeStore()
	store.simTests["sim1"] = &exam.SimulationTest{
		ID: "sim1",
		SingleQuestions: []exam.Question{
			q("s1", "A"),
		},
		MultipleQuestions: []exam.Question{
			q("m1", "B", "C"),
		},
	}
	svc := exam.NewService(store, newFakeCache(), time.Hour)

	// Answers are ordered single pool first, then multiple pool.
	res, err := svc.Submit(context.Background(), "sim1", exam.TestSimulation, [][]string{{"A"}, {"C", "B"}})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.CorrectAnswers != 2 {
		t.Fatalf("correct = %d, want 2", res.CorrectAnswers)
	}
	if _, ok := store.completed["sim1"]; !ok {
		t.Fatal("submission was not persisted")
	}
}

func TestSubmitUnknownTest(t *testing.T) {
	svc := exam.NewService(newFakeStore(), newFakeCache(), time.Hour)
	if _, err := svc.Submit(context.Background(), "nope", exam.TestTimer, nil); err == nil {
		t.Fatal("want error for unknown test id")
	}
}
