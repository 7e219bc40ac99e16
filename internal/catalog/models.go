package catalog

// Category groups questions for test assembly. Soft-deleted categories
// keep their rows (and questions) under a mangled name so they can be
// restored later.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PrevTopic bool   `json:"prevTopic"`
	Deleted   bool   `json:"deleted"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Topic is a named reading document for the learner portal.
type Topic struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DocfileName string `json:"docfileName,omitempty"`
	Pages       int    `json:"pages"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// Document is a topic's PDF inlined for the reader.
type Document struct {
	TopicID string `json:"topicId"`
	Name    string `json:"name"`
	Pages   int    `json:"pages"`
	PDF     string `json:"pdf"` // base64
}
