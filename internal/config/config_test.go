package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 16*1024*1024, cfg.Server.BodyLimit)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
	assert.Equal(t, 2048, cfg.LLM.MaxOutputTokens)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 5, cfg.Quiz.QuestionCount)
	assert.Equal(t, 8000, cfg.Quiz.MaxInputChars)
	assert.Equal(t, 50, cfg.Quiz.MinTextLength)
	assert.Empty(t, cfg.Redis.Address)
	assert.Equal(t, "docquiz.events", cfg.Events.Exchange)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestFromViper_EnvironmentOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("LLM_PROVIDER", "Ollama")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("PORT", "9000")
	t.Setenv("QUIZ_QUESTION_COUNT", "7")
	t.Setenv("LLM_TIMEOUT", "15s")

	cfg, err := fromViper(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, "gemini-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Quiz.QuestionCount)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
}

func TestFromViper_ServerPortEnv(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := fromViper(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)

	t.Setenv("PORT", "9200")
	cfg, err = fromViper(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "claude-on-a-napkin")
	_, err := fromViper(newTestViper())
	assert.ErrorContains(t, err, "unsupported llm provider")

	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("QUIZ_QUESTION_COUNT", "100")
	_, err = fromViper(newTestViper())
	assert.ErrorContains(t, err, "quiz.question_count")
}

func TestParseTTLStringOrDefault(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 2*time.Hour, cfg.ParseTTLStringOrDefault("2h", time.Minute))
	assert.Equal(t, time.Minute, cfg.ParseTTLStringOrDefault("", time.Minute))
	assert.Equal(t, time.Minute, cfg.ParseTTLStringOrDefault("soon", time.Minute))
	assert.Equal(t, time.Minute, cfg.ParseTTLStringOrDefault("-5m", time.Minute))
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "quizgen.yaml")
	yaml := `
server:
  port: 9191
llm:
  provider: openai
  openai_base_url: http://localhost:1234/v1
  timeout: 30s
quiz:
  question_count: 8
logger:
  output: stderr
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "http://localhost:1234/v1", cfg.LLM.OpenAIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 8, cfg.Quiz.QuestionCount)
	assert.Equal(t, "stderr", cfg.Logger.Output)
	assert.Equal(t, 8000, cfg.Quiz.MaxInputChars)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
