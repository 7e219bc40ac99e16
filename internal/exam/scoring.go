package exam

import "math"

// Grade compares one answer set per ordinal question against the
// canonical choice-id sets and derives the submission metrics. It is a
// pure function: grading the same inputs twice yields the same result.
//
// Accuracy deliberately divides by the number of submitted answer sets
// rather than the question count, matching the platform's historical
// behavior; a learner who skips questions gets inflated accuracy
// relative to score.
func Grade(questions []Question, answers [][]string) Result {
	correct := 0
	for i, q := range questions {
		var given []string
		if i < len(answers) {
			given = answers[i]
		}
		if equalStringSets(q.Answer, given) {
			correct++
		}
	}

	total := len(questions)
	res := Result{
		CorrectAnswers:   correct,
		IncorrectAnswers: total - correct,
	}
	if total > 0 {
		res.Score = int(math.Round(float64(correct) / float64(total) * 100))
		res.Percentage = res.Score
	}
	if len(answers) > 0 {
		res.Accuracy = int(math.Round(float64(correct) / float64(len(answers)) * 100))
	}
	return res
}

// equalStringSets reports order-independent set equality: identical
// cardinality and every element of a present in b. No partial credit for
// subsets or supersets.
func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[string]int{}
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		seen[s]--
	}
	for _, v := range seen {
		if v != 0 {
			return false
		}
	}
	return true
}
