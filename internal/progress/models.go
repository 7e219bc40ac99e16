package progress

// TopicProgress is one topic inside a learning session together with the
// reader's position in its document.
type TopicProgress struct {
	ID          string `json:"id"` // session_topics row id
	TopicID     string `json:"topicId"`
	Name        string `json:"name"`
	DocfileName string `json:"docfileName,omitempty"`
	Pages       int    `json:"pages"`
	CurrentPage int    `json:"currentPage"`
}

// Session is a persisted association between a user and an exact set of
// document topics. Identity is the exact topic-id set: re-requesting the
// same set returns the existing session, any other set creates a new one.
type Session struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Topics    []TopicProgress `json:"userTopics"`
	CreatedAt int64           `json:"createdAt"`
}

// TopicPDF carries a topic's document inlined for the reader; PDF is nil
// when the blob could not be fetched or the topic has no document.
type TopicPDF struct {
	TopicID string  `json:"topicId"`
	PDF     *string `json:"pdf"`
}
