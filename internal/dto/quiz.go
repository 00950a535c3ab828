package dto

import (
	"io"
	"time"

	"docquiz/internal/domain"
)

// CreateQuizRequest is one document submitted for quiz generation.
// Body is read once and not retained.
type CreateQuizRequest struct {
	Filename      string
	Body          io.Reader
	QuestionCount int
}

// UploadResponse is returned after a quiz has been published
// @Description Result of a successful document upload
type UploadResponse struct {
	Success  bool   `json:"success"`
	QuizID   string `json:"quiz_id"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

// QuizQuestionResponse represents one multiple-choice question
type QuizQuestionResponse struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// QuizBody holds the questions of a quiz
type QuizBody struct {
	Questions      []QuizQuestionResponse `json:"questions"`
	TotalQuestions int                    `json:"total_questions"`
}

// QuizDetailResponse represents a stored quiz
// @Description A generated quiz with its source metadata
type QuizDetailResponse struct {
	Success          bool      `json:"success"`
	QuizID           string    `json:"quiz_id"`
	Quiz             QuizBody  `json:"quiz"`
	Filename         string    `json:"filename"`
	CreatedAt        time.Time `json:"created_at"`
	TextPreview      string    `json:"text_preview"`
	SourceTextLength int       `json:"source_text_length"`
}

// QuizSummaryResponse is one entry of the quiz listing
type QuizSummaryResponse struct {
	QuizID        string    `json:"quiz_id"`
	Filename      string    `json:"filename"`
	CreatedAt     time.Time `json:"created_at"`
	QuestionCount int       `json:"question_count"`
}

// QuizListResponse lists stored quizzes, most recent first
type QuizListResponse struct {
	Success bool                  `json:"success"`
	Quizzes []QuizSummaryResponse `json:"quizzes"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// NewQuizDetailResponse converts a stored record into its API form.
func NewQuizDetailResponse(record *domain.QuizRecord) *QuizDetailResponse {
	body := QuizBody{Questions: []QuizQuestionResponse{}}
	if record.Quiz != nil {
		body.TotalQuestions = record.Quiz.TotalQuestions
		for _, q := range record.Quiz.Questions {
			body.Questions = append(body.Questions, QuizQuestionResponse{
				Question:      q.Question,
				Options:       append([]string(nil), q.Options...),
				CorrectAnswer: q.CorrectAnswer,
				Explanation:   q.Explanation,
			})
		}
	}
	return &QuizDetailResponse{
		Success:          true,
		QuizID:           record.ID,
		Quiz:             body,
		Filename:         record.SourceFilename,
		CreatedAt:        record.CreatedAt,
		TextPreview:      record.TextPreview,
		SourceTextLength: record.SourceTextLength,
	}
}

// NewQuizListResponse converts repository summaries into the listing form.
func NewQuizListResponse(summaries []domain.QuizSummary) *QuizListResponse {
	quizzes := make([]QuizSummaryResponse, len(summaries))
	for i, s := range summaries {
		quizzes[i] = QuizSummaryResponse{
			QuizID:        s.ID,
			Filename:      s.SourceFilename,
			CreatedAt:     s.CreatedAt,
			QuestionCount: s.QuestionCount,
		}
	}
	return &QuizListResponse{Success: true, Quizzes: quizzes}
}
