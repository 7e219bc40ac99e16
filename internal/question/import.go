package question

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quizdoc/quizdoc/internal/apperr"
)

const titleLimit = 50

// csv layout: question, choice1..choice5, answer, level. answer holds
// 1-based choice indices, comma separated for multiple-answer questions.
// level 1 is EASY, 2 is MEDIUM, anything else HARD.
const csvColumns = 8

// ImportCSV bulk-loads questions into a category from a CSV stream. The
// whole file is parsed and validated before anything is written; the
// insert runs in one transaction, so a bad row loads nothing.
func (s *Service) ImportCSV(ctx context.Context, categoryID string, r io.Reader) (int, error) {
	qs, err := parseCSV(categoryID, r)
	if err != nil {
		return 0, err
	}
	if len(qs) == 0 {
		return 0, apperr.Validation("csv contains no questions")
	}
	if err := s.store.InsertQuestions(ctx, qs); err != nil {
		return 0, apperr.Storage(err)
	}
	s.purgeQuestionCache(ctx, categoryID)
	return len(qs), nil
}

func parseCSV(categoryID string, r io.Reader) ([]Question, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	now := time.Now().Unix()
	var out []Question
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.Validation("csv row %d is malformed", row+1)
		}
		row++
		if row == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "question") {
			continue // header
		}
		if len(record) < csvColumns {
			return nil, apperr.Validation("csv row %d has %d columns, want %d", row, len(record), csvColumns)
		}
		q, err := questionFromRecord(categoryID, record, now)
		if err != nil {
			return nil, apperr.Validation("csv row %d: %v", row, err)
		}
		out = append(out, *q)
	}
	return out, nil
}

func questionFromRecord(categoryID string, record []string, now int64) (*Question, error) {
	text := strings.TrimSpace(record[0])
	if text == "" {
		return nil, errEmptyQuestion
	}
	q := &Question{
		ID:         uuid.NewString(),
		CategoryID: categoryID,
		Title:      truncateTitle(text),
		Text:       text,
		Level:      levelFromCSV(record[7]),
		CreatedAt:  now,
	}
	for _, cell := range record[1:6] {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		q.Choices = append(q.Choices, Choice{ID: uuid.NewString(), Text: cell})
	}
	if len(q.Choices) < 2 {
		return nil, errTooFewChoices
	}

	answerCell := strings.TrimSpace(record[6])
	q.IsMultipleAnswer = strings.Contains(answerCell, ",")
	for _, part := range strings.Split(answerCell, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || idx < 1 || idx > len(q.Choices) {
			return nil, errBadAnswerIndex
		}
		q.Answer = append(q.Answer, q.Choices[idx-1].ID)
	}
	return q, nil
}

func levelFromCSV(cell string) string {
	switch strings.TrimSpace(cell) {
	case "1":
		return "EASY"
	case "2":
		return "MEDIUM"
	default:
		return "HARD"
	}
}

func truncateTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= titleLimit {
		return text
	}
	return string(runes[:titleLimit])
}

var (
	errEmptyQuestion  = errString("question text is empty")
	errTooFewChoices  = errString("fewer than two choices")
	errBadAnswerIndex = errString("answer index out of range")
)

type errString string

func (e errString) Error() string { return string(e) }
