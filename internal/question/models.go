package question

// Choice is one selectable option of a question.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is the admin view of a question: canonical answers included.
type Question struct {
	ID               string   `json:"id"`
	CategoryID       string   `json:"categoryId"`
	Title            string   `json:"title"`
	Text             string   `json:"question"`
	Paragraph        string   `json:"paragraph,omitempty"`
	Level            string   `json:"level"`
	IsMultipleAnswer bool     `json:"isMultipleAnswer"`
	Choices          []Choice `json:"choice"`
	Answer           []string `json:"answer"` // canonical choice ids
	CreatedAt        int64    `json:"createdAt"`
}

// Page is one page of a category's question list.
type Page struct {
	Questions  []Question `json:"questions"`
	Total      int        `json:"total"`
	TotalPages int        `json:"totalPages"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
}

// Flag is a learner report against a question. Resolution is terminal.
type Flag struct {
	ID          string `json:"id"`
	QuestionID  string `json:"questionId"`
	UserID      string `json:"userId"`
	Description string `json:"description"`
	Resolved    bool   `json:"resolved"`
	Comment     string `json:"comment,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}
