package quizgen

import (
	"fmt"

	"docquiz/internal/domain"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// QuizSchema describes the exact JSON object the generative service must return.
// Every property is required and no extra properties are allowed.
func QuizSchema() jsonschema.Definition {
	question := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"question": {
				Type:        jsonschema.String,
				Description: "The question text.",
			},
			"options": {
				Type:        jsonschema.Array,
				Description: fmt.Sprintf("Exactly %d answer options.", domain.OptionsPerQuestion),
				Items:       &jsonschema.Definition{Type: jsonschema.String},
			},
			"correct_answer": {
				Type:        jsonschema.Integer,
				Description: fmt.Sprintf("Zero-based index of the correct option, 0 to %d.", domain.OptionsPerQuestion-1),
			},
			"explanation": {
				Type:        jsonschema.String,
				Description: "Short explanation of why the answer is correct.",
			},
		},
		Required:             []string{"question", "options", "correct_answer", "explanation"},
		AdditionalProperties: false,
	}

	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"questions": {
				Type:  jsonschema.Array,
				Items: &question,
			},
			"total_questions": {
				Type:        jsonschema.Integer,
				Description: "Number of entries in questions.",
			},
		},
		Required:             []string{"questions", "total_questions"},
		AdditionalProperties: false,
	}
}
