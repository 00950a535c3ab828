package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"docquiz/internal/adapter/quizgen"
	"docquiz/internal/config"
	"docquiz/internal/domain"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quizPayload = `{"questions":[{"question":"Q?","options":["a","b","c","d"],"correct_answer":1,"explanation":"e"}],"total_questions":1}`

func testRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		SystemInstruction: "Only JSON.",
		Prompt:            "Generate exactly 1 multiple choice questions from this text: ...",
		Schema:            quizgen.QuizSchema(),
		Temperature:       0.7,
		MaxOutputTokens:   2048,
		QuestionCount:     1,
	}
}

func TestToGenaiSchema(t *testing.T) {
	schema := ToGenaiSchema(quizgen.QuizSchema())

	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.ElementsMatch(t, []string{"questions", "total_questions"}, schema.Required)
	assert.Equal(t, genai.TypeInteger, schema.Properties["total_questions"].Type)

	questions := schema.Properties["questions"]
	require.NotNil(t, questions)
	assert.Equal(t, genai.TypeArray, questions.Type)
	require.NotNil(t, questions.Items)

	item := questions.Items
	assert.Equal(t, genai.TypeObject, item.Type)
	assert.ElementsMatch(t, []string{"question", "options", "correct_answer", "explanation"}, item.Required)
	assert.Equal(t, genai.TypeString, item.Properties["question"].Type)
	assert.Equal(t, genai.TypeArray, item.Properties["options"].Type)
	assert.Equal(t, genai.TypeString, item.Properties["options"].Items.Type)
	assert.Equal(t, genai.TypeInteger, item.Properties["correct_answer"].Type)
	assert.NotEmpty(t, item.Properties["correct_answer"].Description)
}

func TestNewClient_Validation(t *testing.T) {
	ctx := context.Background()

	_, _, err := NewClient(ctx, config.LLMConfig{Provider: "bard"})
	assert.ErrorContains(t, err, "unsupported llm provider")

	_, _, err = NewClient(ctx, config.LLMConfig{Provider: "gemini"})
	assert.ErrorContains(t, err, "API key cannot be empty")

	_, _, err = NewClient(ctx, config.LLMConfig{Provider: "openai"})
	assert.ErrorContains(t, err, "API key cannot be empty")
}

func TestNewClient_Providers(t *testing.T) {
	ctx := context.Background()

	client, closer, err := NewClient(ctx, config.LLMConfig{Provider: "openai", OpenAIAPIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "openai", client.Name())
	assert.NoError(t, closer.Close())

	client, closer, err = NewClient(ctx, config.LLMConfig{Provider: "ollama", OllamaServerURL: "http://localhost:11434", Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "ollama", client.Name())
	assert.NoError(t, closer.Close())
}

func TestOpenAIClient_Generate(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]interface{}{"role": "assistant", "content": quizPayload},
			}},
		})
	}))
	defer srv.Close()

	client, err := NewOpenAIClient("sk-test", srv.URL+"/v1", "")
	require.NoError(t, err)

	raw, err := client.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.JSONEq(t, quizPayload, raw)

	assert.Equal(t, "gpt-4o-mini", captured["model"])
	assert.EqualValues(t, 2048, captured["max_tokens"])
	messages, ok := captured["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])

	format, ok := captured["response_format"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	jsonSchema := format["json_schema"].(map[string]interface{})
	assert.Equal(t, "quiz", jsonSchema["name"])
	assert.Equal(t, true, jsonSchema["strict"])
	assert.Equal(t, "object", jsonSchema["schema"].(map[string]interface{})["type"])
}

func TestOpenAIClient_GenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient("sk-test", srv.URL+"/v1", "gpt-4o-mini")
	require.NoError(t, err)

	raw, err := client.Generate(context.Background(), testRequest())
	assert.Error(t, err)
	assert.Empty(t, raw)
}

func TestOllamaClient_Generate(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"model":      "qwen3:0.6b",
			"created_at": "2024-06-01T12:00:00Z",
			"message":    map[string]interface{}{"role": "assistant", "content": quizPayload},
			"done":       true,
		})
	}))
	defer srv.Close()

	client, err := NewOllamaClient(srv.URL, "", 5*time.Second)
	require.NoError(t, err)

	raw, err := client.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.JSONEq(t, quizPayload, raw)
	assert.Equal(t, "json", captured["format"])
	assert.Equal(t, "qwen3:0.6b", captured["model"])
}
