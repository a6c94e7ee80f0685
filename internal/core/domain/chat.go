package domain

import "time"

// Role identifies the author of a chat message.
type Role string

// Chat roles.
const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// NoDocumentsAnswer is returned when a question is asked with nothing loaded.
const NoDocumentsAnswer = "No documents loaded. Upload a PDF to start asking questions."

// ChatMessage is one turn of a study conversation. Messages are owned by the
// caller; the core only produces the Sources of AI messages.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Sources   []string  `json:"sources,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Answer is the grounded response to a question.
type Answer struct {
	// Text is the generated answer.
	Text string `json:"answer"`

	// Sources are the distinct filenames of the chunks used, in first-use order.
	Sources []string `json:"sources"`

	// Chunks are the retrieved chunks that made it into the context.
	Chunks []ScoredChunk `json:"-"`

	// NoDocuments is true when nothing was loaded to answer from.
	NoDocuments bool `json:"no_documents,omitempty"`
}

// Message converts the answer into an AI chat message.
func (a *Answer) Message() ChatMessage {
	return ChatMessage{
		Role:      RoleAI,
		Content:   a.Text,
		Sources:   a.Sources,
		Timestamp: time.Now(),
	}
}

// ChatExport is the exported form of a conversation.
type ChatExport struct {
	ID            string        `json:"id"`
	Type          string        `json:"type"`
	Messages      []ChatMessage `json:"messages"`
	TotalMessages int           `json:"total_messages"`
	ExportedAt    time.Time     `json:"exported_at"`
}

// QuizExport is the exported form of a scored quiz.
type QuizExport struct {
	Type       string         `json:"type"`
	Quiz       []QuizQuestion `json:"quiz"`
	Answers    map[int]string `json:"answers"`
	Score      int            `json:"score"`
	Total      int            `json:"total"`
	Percentage float64        `json:"percentage"`
	Difficulty Difficulty     `json:"difficulty"`
	Language   string         `json:"language"`
	ExportedAt time.Time      `json:"exported_at"`
}

// Export type tags.
const (
	ExportTypeChat = "chat_history"
	ExportTypeQuiz = "quiz_results"
)
