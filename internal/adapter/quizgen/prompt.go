package quizgen

import (
	"fmt"
	"unicode/utf8"
)

// TruncationMarker is appended to text cut at the input limit.
const TruncationMarker = "..."

const systemInstruction = "You are an expert quiz generator. " +
	"ONLY return valid JSON as specified. No extra comments or explanations outside JSON. " +
	"Ensure all strings are enclosed in double quotes and JSON is well-formed."

const userPromptTemplate = `Generate exactly %[1]d multiple choice questions from this text:

%[2]s

Return only valid JSON with this exact structure, nothing else:
{
    "questions": [
        {
            "question": "Question text here?",
            "options": ["Option A", "Option B", "Option C", "Option D"],
            "correct_answer": 0,
            "explanation": "Short explanation"
        }
    ],
    "total_questions": %[1]d
}

IMPORTANT:
- Every question has exactly 4 options and exactly one correct answer.
- correct_answer is the zero-based index (0, 1, 2 or 3) of the correct option.
- Do NOT include any text outside this JSON.
- Do NOT use markdown or comments.
`

// TruncateText keeps the first maxChars characters of text and appends TruncationMarker
// when anything was cut. maxChars <= 0 disables truncation.
func TruncateText(text string, maxChars int) (string, bool) {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text, false
	}
	return string([]rune(text)[:maxChars]) + TruncationMarker, true
}

func buildUserPrompt(text string, count int) string {
	return fmt.Sprintf(userPromptTemplate, count, text)
}
