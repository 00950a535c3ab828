package quizgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"docquiz/internal/domain"
	"docquiz/internal/logger"

	"go.uber.org/zap"
)

var requiredQuestionFields = []string{"question", "options", "correct_answer", "explanation"}

// ParseQuiz decodes a raw service response into an untyped tree, then checks it field by field.
// It stops at the first violation and never returns a partially valid quiz.
func ParseQuiz(raw string) (*domain.Quiz, error) {
	cleaned := cleanResponse(raw)
	if cleaned == "" {
		return nil, domain.NewEmptyResponseError()
	}

	tree, err := decodeTree(cleaned)
	if err != nil {
		return nil, domain.NewMalformedResponseError(raw, err)
	}

	root, ok := tree.(map[string]interface{})
	if !ok {
		return nil, domain.NewSchemaError("missing questions", 0, "questions")
	}
	items, ok := root["questions"].([]interface{})
	if !ok {
		return nil, domain.NewSchemaError("missing questions", 0, "questions")
	}

	questions := make([]domain.QuizQuestion, 0, len(items))
	for i, item := range items {
		question, err := parseQuestion(i+1, item)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}

	quiz := domain.NewQuiz(questions)
	if reported, ok := asInt(root["total_questions"]); !ok || reported != quiz.TotalQuestions {
		logger.Get().Warn("Reported total_questions does not match question list; using the list length",
			zap.Any("reported", root["total_questions"]),
			zap.Int("actual", quiz.TotalQuestions))
	}
	return quiz, nil
}

// parseQuestion validates the n-th (1-based) question.
func parseQuestion(n int, item interface{}) (domain.QuizQuestion, error) {
	fields, ok := item.(map[string]interface{})
	if !ok {
		return domain.QuizQuestion{}, missingField(n, requiredQuestionFields[0])
	}
	for _, field := range requiredQuestionFields {
		if value, present := fields[field]; !present || value == nil {
			return domain.QuizQuestion{}, missingField(n, field)
		}
	}

	rawOptions, ok := fields["options"].([]interface{})
	if !ok || len(rawOptions) != domain.OptionsPerQuestion {
		return domain.QuizQuestion{}, domain.NewSchemaError(fmt.Sprintf("question %d option count", n), n, "options")
	}

	answer, ok := asInt(fields["correct_answer"])
	if !ok || answer < 0 || answer >= domain.OptionsPerQuestion {
		return domain.QuizQuestion{}, domain.NewSchemaError(fmt.Sprintf("question %d bad answer index", n), n, "correct_answer")
	}

	text, ok := fields["question"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return domain.QuizQuestion{}, invalidField(n, "question")
	}
	options := make([]string, len(rawOptions))
	for i, rawOption := range rawOptions {
		option, ok := rawOption.(string)
		if !ok {
			return domain.QuizQuestion{}, invalidField(n, "options")
		}
		options[i] = option
	}
	explanation, ok := fields["explanation"].(string)
	if !ok {
		return domain.QuizQuestion{}, invalidField(n, "explanation")
	}

	return domain.QuizQuestion{
		Question:      text,
		Options:       options,
		CorrectAnswer: answer,
		Explanation:   explanation,
	}, nil
}

func missingField(n int, field string) error {
	return domain.NewSchemaError(fmt.Sprintf("question %d missing field %s", n, field), n, field)
}

func invalidField(n int, field string) error {
	return domain.NewSchemaError(fmt.Sprintf("question %d invalid field %s", n, field), n, field)
}

// asInt accepts JSON numbers with an integral value, so 2 and 2.0 are both 2.
func asInt(v interface{}) (int, bool) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := num.Int64(); err == nil {
		if i < math.MinInt32 || i > math.MaxInt32 {
			return 0, false
		}
		return int(i), true
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func decodeTree(s string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var tree interface{}
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return tree, nil
}

// cleanResponse drops reasoning blocks and markdown code fences some models wrap around JSON.
func cleanResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)

	for {
		thinkStart := strings.Index(cleaned, "<think>")
		if thinkStart == -1 {
			break
		}
		thinkEnd := strings.Index(cleaned, "</think>")
		if thinkEnd == -1 || thinkEnd < thinkStart {
			break
		}
		cleaned = strings.TrimSpace(cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):])
	}

	if strings.HasPrefix(cleaned, "```") {
		if newline := strings.Index(cleaned, "\n"); newline != -1 {
			cleaned = cleaned[newline+1:]
		} else {
			cleaned = strings.TrimPrefix(cleaned, "```")
		}
		cleaned = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cleaned), "```"))
	}
	return cleaned
}
