package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docquiz/internal/config"
	"docquiz/internal/domain"
	"docquiz/internal/dto"
	"docquiz/internal/extractor/extractortest"
	"docquiz/internal/logger"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error", Output: "stderr"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	color.NoColor = true
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

const lectureText = "Photosynthesis is the process by which green plants use sunlight, " +
	"water and carbon dioxide to produce glucose and oxygen."

func modelServer(t *testing.T, n int) *httptest.Server {
	t.Helper()
	questions := make([]map[string]interface{}, n)
	for i := range questions {
		questions[i] = map[string]interface{}{
			"question":       fmt.Sprintf("Question %d?", i+1),
			"options":        []string{"Oxygen", "Helium", "Neon", "Argon"},
			"correct_answer": 0,
			"explanation":    "Plants release oxygen.",
		}
	}
	content, _ := json.Marshal(map[string]interface{}{"questions": questions, "total_questions": n})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]interface{}{"role": "assistant", "content": string(content)},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func cliConfig(baseURL string) *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Provider:        "openai",
			OpenAIAPIKey:    "sk-test",
			OpenAIBaseURL:   baseURL,
			Temperature:     0.7,
			MaxOutputTokens: 2048,
			Timeout:         5 * time.Second,
		},
		Quiz: config.QuizConfig{QuestionCount: 5, MaxQuestionCount: 20, MaxInputChars: 8000, MinTextLength: 50},
	}
}

func writeDoc(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestRunGenerate_Text(t *testing.T) {
	srv := modelServer(t, 3)
	path := writeDoc(t, "lecture.docx", extractortest.DOCX(extractortest.Paragraph(lectureText)))

	var out bytes.Buffer
	require.NoError(t, runGenerate(context.Background(), &out, cliConfig(srv.URL+"/v1"), path, 3, false))

	text := out.String()
	assert.Contains(t, text, "lecture.docx")
	assert.Contains(t, text, "1. Question 1?")
	assert.Contains(t, text, "3. Question 3?")
	assert.Contains(t, text, "A) Oxygen  ✓")
	assert.Contains(t, text, "B) Helium\n")
	assert.Contains(t, text, "Plants release oxygen.")
}

func TestRunGenerate_JSON(t *testing.T) {
	srv := modelServer(t, 5)
	path := writeDoc(t, "lecture.pdf", extractortest.PDF(lectureText))

	var out bytes.Buffer
	require.NoError(t, runGenerate(context.Background(), &out, cliConfig(srv.URL+"/v1"), path, 0, true))

	var detail dto.QuizDetailResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &detail))
	assert.True(t, detail.Success)
	assert.Equal(t, "lecture.pdf", detail.Filename)
	assert.Equal(t, 5, detail.Quiz.TotalQuestions)
	assert.Len(t, detail.QuizID, 26)
}

func TestRunGenerate_Failures(t *testing.T) {
	srv := modelServer(t, 5)
	cfg := cliConfig(srv.URL + "/v1")
	ctx := context.Background()
	var out bytes.Buffer

	err := runGenerate(ctx, &out, cfg, writeDoc(t, "notes.txt", []byte(lectureText)), 0, false)
	var validationErrs domain.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)

	err = runGenerate(ctx, &out, cfg, writeDoc(t, "notes.pdf", []byte("%PDF")), 50, false)
	assert.ErrorAs(t, err, &validationErrs)

	err = runGenerate(ctx, &out, cfg, filepath.Join(t.TempDir(), "missing.pdf"), 0, false)
	assert.ErrorIs(t, err, os.ErrNotExist)

	short := writeDoc(t, "short.docx", extractortest.DOCX(extractortest.Paragraph("Too short.")))
	err = runGenerate(ctx, &out, cfg, short, 0, false)
	assert.True(t, domain.HasCode(err, domain.CodeInsufficientText), "got %v", err)

	assert.Empty(t, out.String())
}

func TestPrintQuiz(t *testing.T) {
	record := &domain.QuizRecord{
		ID: "01J2Z3Y4X5W6V7T8S9R0QPNMKH",
		Quiz: domain.NewQuiz([]domain.QuizQuestion{{
			Question:      "Where does photosynthesis happen?",
			Options:       []string{"Roots", "Chloroplasts", "Bark", "Seeds"},
			CorrectAnswer: 1,
			Explanation:   " ",
		}}),
		SourceFilename:   "bio.pdf",
		SourceTextLength: 300,
	}

	var out bytes.Buffer
	printQuiz(&out, record)
	want := "Quiz 01J2Z3Y4X5W6V7T8S9R0QPNMKH\n" +
		"bio.pdf (300 characters, 1 questions)\n\n" +
		"1. Where does photosynthesis happen?\n" +
		"   A) Roots\n" +
		"   B) Chloroplasts  ✓\n" +
		"   C) Bark\n" +
		"   D) Seeds\n\n"
	assert.Equal(t, want, out.String())
}

func TestRootCommand_Wiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["generate"])
	assert.True(t, names["serve"])

	assert.NotNil(t, generateCmd.Flags().Lookup("count"))
	assert.NotNil(t, generateCmd.Flags().Lookup("json"))
	assert.NotNil(t, serveCmd.Flags().Lookup("port"))
	assert.Error(t, generateCmd.Args(generateCmd, nil))
}
