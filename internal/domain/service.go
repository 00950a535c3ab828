package domain

import "context"

// QuizRepository holds published quiz records keyed by an opaque identifier.
// Implementations must be safe for concurrent use.
type QuizRepository interface {
	// Put stores a new record. It returns a DUPLICATE_ID error if the ID is already taken.
	Put(ctx context.Context, record *QuizRecord) error

	// Get returns the record and true, or nil and false when the ID is unknown.
	Get(ctx context.Context, id string) (*QuizRecord, bool)

	// List returns summaries ordered by CreatedAt descending, most recently inserted first on ties.
	List(ctx context.Context) []QuizSummary

	// Count returns the number of stored records.
	Count(ctx context.Context) int
}

// QuizEvent is published on every terminal pipeline transition.
type QuizEvent struct {
	Type          string     `json:"type"`
	QuizID        string     `json:"quiz_id,omitempty"`
	Filename      string     `json:"filename"`
	Status        QuizStatus `json:"status"`
	Stage         QuizStatus `json:"stage,omitempty"`
	QuestionCount int        `json:"question_count,omitempty"`
	Code          ErrorCode  `json:"code,omitempty"`
	Message       string     `json:"message,omitempty"`
	OccurredAt    string     `json:"occurred_at"`
}

const (
	EventQuizPublished = "quiz.published"
	EventQuizFailed    = "quiz.failed"
)

// EventPublisher delivers lifecycle events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event *QuizEvent) error
	Close() error
}
