package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	LLM       LLMConfig
	Quiz      QuizConfig
	Redis     RedisConfig
	CacheTTLs CacheTTLConfig
	Events    EventsConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type LoggerConfig struct {
	Level  string
	Env    string
	Output string // stdout or stderr
}

// LLMConfig selects and configures the generative service.
type LLMConfig struct {
	Provider        string // gemini, openai or ollama
	Model           string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OllamaServerURL string
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration
}

type QuizConfig struct {
	QuestionCount    int
	MaxQuestionCount int
	MaxInputChars    int
	MinTextLength    int
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type CacheTTLConfig struct {
	Generation string
}

type EventsConfig struct {
	AMQPURL  string
	Exchange string
}

type MetricsConfig struct {
	Enabled bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.body_limit", 16*1024*1024)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.output", "stdout")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.openai_base_url", "")
	v.SetDefault("llm.ollama_server_url", "http://localhost:11434")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_output_tokens", 2048)
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("quiz.question_count", 5)
	v.SetDefault("quiz.max_question_count", 20)
	v.SetDefault("quiz.max_input_chars", 8000)
	v.SetDefault("quiz.min_text_length", 50)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache_ttls.generation", "24h")

	v.SetDefault("events.amqp_url", "")
	v.SetDefault("events.exchange", "docquiz.events")

	v.SetDefault("metrics.enabled", true)
}

// LoadConfig reads config.yaml (if present), .env (if present) and the environment.
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile is LoadConfig with an explicit config file. An empty path searches the
// default locations.
func LoadConfigFile(path string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	switch {
	case path != "":
		v.SetConfigFile(path)
	case os.Getenv("ENV") == "test":
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	default:
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", absPath)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("logger.level"),
			Env:    v.GetString("logger.env"),
			Output: v.GetString("logger.output"),
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(v.GetString("llm.provider")),
			Model:           v.GetString("llm.model"),
			GeminiAPIKey:    v.GetString("llm.gemini_api_key"),
			OpenAIAPIKey:    v.GetString("llm.openai_api_key"),
			OpenAIBaseURL:   v.GetString("llm.openai_base_url"),
			OllamaServerURL: v.GetString("llm.ollama_server_url"),
			Temperature:     v.GetFloat64("llm.temperature"),
			MaxOutputTokens: v.GetInt("llm.max_output_tokens"),
			Timeout:         v.GetDuration("llm.timeout"),
		},
		Quiz: QuizConfig{
			QuestionCount:    v.GetInt("quiz.question_count"),
			MaxQuestionCount: v.GetInt("quiz.max_question_count"),
			MaxInputChars:    v.GetInt("quiz.max_input_chars"),
			MinTextLength:    v.GetInt("quiz.min_text_length"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		CacheTTLs: CacheTTLConfig{
			Generation: v.GetString("cache_ttls.generation"),
		},
		Events: EventsConfig{
			AMQPURL:  v.GetString("events.amqp_url"),
			Exchange: v.GetString("events.exchange"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
		},
	}

	// Well-known variable names take precedence over the nested keys
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.LLM.GeminiAPIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.LLM.OpenAIAPIKey = key
	}
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = strings.ToLower(provider)
	}
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
		config.Server.Port = port
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		config.Events.AMQPURL = amqpURL
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the values the pipeline cannot run without.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("unsupported llm provider: %q", c.LLM.Provider)
	}
	if c.Quiz.QuestionCount <= 0 || c.Quiz.QuestionCount > c.Quiz.MaxQuestionCount {
		return fmt.Errorf("quiz.question_count must be between 1 and %d", c.Quiz.MaxQuestionCount)
	}
	if c.Quiz.MaxInputChars <= 0 {
		return fmt.Errorf("quiz.max_input_chars must be positive")
	}
	return nil
}

// ParseTTLStringOrDefault parses a duration such as "24h", falling back to def on error.
func (c *Config) ParseTTLStringOrDefault(ttl string, def time.Duration) time.Duration {
	if ttl == "" {
		return def
	}
	d, err := time.ParseDuration(ttl)
	if err != nil || d < 0 {
		return def
	}
	return d
}
