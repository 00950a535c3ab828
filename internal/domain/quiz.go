package domain

import (
	"time"
	"unicode/utf8"
)

const (
	// OptionsPerQuestion is the exact number of options every question carries.
	OptionsPerQuestion = 4
	// DefaultQuestionCount is used when a caller asks for zero or fewer questions.
	DefaultQuestionCount = 5
	// MinTextLength is the shortest extracted text that may be sent for generation.
	MinTextLength = 50
	// TextPreviewLength bounds QuizRecord.TextPreview.
	TextPreviewLength = 500
)

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"` // index into Options
	Explanation   string   `json:"explanation"`
}

// Quiz is a validated set of questions.
type Quiz struct {
	Questions      []QuizQuestion `json:"questions"`
	TotalQuestions int            `json:"total_questions"`
}

// NewQuiz builds a Quiz whose TotalQuestions always matches len(questions).
func NewQuiz(questions []QuizQuestion) *Quiz {
	return &Quiz{
		Questions:      questions,
		TotalQuestions: len(questions),
	}
}

// Clone returns a deep copy of the quiz.
func (q *Quiz) Clone() *Quiz {
	if q == nil {
		return nil
	}
	questions := make([]QuizQuestion, len(q.Questions))
	for i, question := range q.Questions {
		question.Options = append([]string(nil), question.Options...)
		questions[i] = question
	}
	return &Quiz{Questions: questions, TotalQuestions: q.TotalQuestions}
}

// QuizRecord is a published quiz. It is never modified after creation.
type QuizRecord struct {
	ID               string    `json:"id"`
	Quiz             *Quiz     `json:"quiz"`
	SourceFilename   string    `json:"source_filename"`
	CreatedAt        time.Time `json:"created_at"`
	SourceTextLength int       `json:"source_text_length"`
	TextPreview      string    `json:"text_preview"`
}

// Clone returns a deep copy of the record.
func (r *QuizRecord) Clone() *QuizRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Quiz = r.Quiz.Clone()
	return &c
}

// Summary returns the listing view of the record.
func (r *QuizRecord) Summary() QuizSummary {
	count := 0
	if r.Quiz != nil {
		count = len(r.Quiz.Questions)
	}
	return QuizSummary{
		ID:             r.ID,
		SourceFilename: r.SourceFilename,
		CreatedAt:      r.CreatedAt,
		QuestionCount:  count,
	}
}

// QuizSummary is one entry of the quiz listing.
type QuizSummary struct {
	ID             string    `json:"quiz_id"`
	SourceFilename string    `json:"filename"`
	CreatedAt      time.Time `json:"created_at"`
	QuestionCount  int       `json:"question_count"`
}

// PreviewText cuts text to TextPreviewLength runes, marking the cut with "...".
func PreviewText(text string) string {
	if utf8.RuneCountInString(text) <= TextPreviewLength {
		return text
	}
	return string([]rune(text)[:TextPreviewLength]) + "..."
}

// QuizStatus is the lifecycle state of one pipeline execution.
type QuizStatus string

const (
	StatusPending   QuizStatus = "pending"
	StatusExtracted QuizStatus = "extracted"
	StatusGenerated QuizStatus = "generated"
	StatusPublished QuizStatus = "published"
	StatusFailed    QuizStatus = "failed"
)

// IsTerminal reports whether no further transition is possible.
func (s QuizStatus) IsTerminal() bool {
	return s == StatusPublished || s == StatusFailed
}

// CanTransitionTo enforces Pending -> Extracted -> Generated -> Published, with Failed reachable
// from every non-terminal state.
func (s QuizStatus) CanTransitionTo(next QuizStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusFailed {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusExtracted
	case StatusExtracted:
		return next == StatusGenerated
	case StatusGenerated:
		return next == StatusPublished
	}
	return false
}
