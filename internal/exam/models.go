package exam

type Level string

const (
	LevelEasy   Level = "EASY"
	LevelMedium Level = "MEDIUM"
	LevelHard   Level = "HARD"
)

type TestType string

const (
	TestTimer      TestType = "TIMER"
	TestNoTimer    TestType = "NOTIMER"
	TestSimulation TestType = "SIMULATION"
)

type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Question struct {
	ID               string   `json:"id"`
	Title            string   `json:"title,omitempty"`
	Text             string   `json:"question,omitempty"`
	Level            Level    `json:"level"`
	IsMultipleAnswer bool     `json:"isMultipleAnswer,omitempty"`
	Paragraph        string   `json:"paragraph,omitempty"`
	Choices          []Choice `json:"choice"`
	// Answer holds the canonical correct choice ids; it is stripped from
	// any response until the test is completed.
	Answer []string `json:"answer,omitempty"`
}

// Result carries the metrics computed at submission. All values are
// integer-rounded percentages except the counts.
type Result struct {
	CorrectAnswers   int `json:"correctAnswers"`
	IncorrectAnswers int `json:"incorrectAnswers"`
	Score            int `json:"score"`
	Accuracy         int `json:"accuracy"`
	Percentage       int `json:"percentage"`
	TotalTimeTaken   int `json:"totalTimeTaken"`
}

// Test is a standard (TIMER/NOTIMER) test instance with its snapshotted
// question set.
type Test struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	CategoryID        string     `json:"categoryId"`
	TestType          TestType   `json:"testType"`
	NumberOfQuestions int        `json:"numberOfQuestions"`
	Duration          int        `json:"duration"`
	IsTimed           bool       `json:"isTimed"`
	IsCompleted       bool       `json:"isCompleted"`
	Questions         []Question `json:"question"`
	UserAnswers       [][]string `json:"userAnswers"`
	Result
	CreatedAt int64 `json:"createdAt"`
}

// SimulationTest draws from two disjoint pools by answer arity instead of
// a difficulty split.
type SimulationTest struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	CategoryID        string     `json:"categoryId,omitempty"`
	NumberOfQuestions int        `json:"numberOfQuestions"`
	Duration          int        `json:"duration"`
	IsCompleted       bool       `json:"isCompleted"`
	SingleQuestions   []Question `json:"singleQuestion"`
	MultipleQuestions []Question `json:"multipleQuestion"`
	UserAnswers       [][]string `json:"userAnswers"`
	Result
	CreatedAt int64 `json:"createdAt"`
}

// Pool sizes for a simulation test; both must be met in full or creation
// fails.
const (
	SimulationSinglePool   = 50
	SimulationMultiplePool = 150
)

// TestSummary is the per-test row in a user's monthly history.
type TestSummary struct {
	ID                string   `json:"id"`
	TestType          TestType `json:"testType"`
	CategoryName      string   `json:"categoryName,omitempty"`
	NumberOfQuestions int      `json:"numberOfQuestions"`
	IsCompleted       bool     `json:"isCompleted"`
	CorrectAnswers    int      `json:"correctAnswers"`
	CreatedAt         int64    `json:"createdAt"`
}
