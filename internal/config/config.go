package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gemini-multitool/internal/domain"

	"github.com/spf13/viper"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Env     string
	Logger  LoggerConfig
	Server  ServerConfig
	LLM     LLMConfig
	Session SessionConfig
	Redis   RedisConfig
}

type LoggerConfig struct {
	Level string
	Env   string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LLMConfig selects and configures the model gateway.
type LLMConfig struct {
	Provider string
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
	Ollama   OllamaConfig
}

type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the service endpoint; empty uses the SDK default.
	BaseURL string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type OllamaConfig struct {
	ServerURL string
	Model     string
}

type SessionConfig struct {
	Store      string
	TTL        time.Duration
	CookieName string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 300)
	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("gemini.model", "gemini-2.5-pro")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("ollama.server_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "qwen3:0.6b")
	v.SetDefault("session.store", SessionStoreMemory)
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.cookie_name", "multitool_session")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
}

// LoadConfig reads an optional config.yaml from the working directory or ./configs,
// then applies environment overrides (server.port -> SERVER_PORT). The model
// credential for the selected provider is required.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../configs")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	env := v.GetString("env")
	return &Config{
		Env: env,
		Logger: LoggerConfig{
			Level: v.GetString("log.level"),
			Env:   env,
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(v.GetString("llm.provider")),
			Gemini: GeminiConfig{
				APIKey:  v.GetString("gemini.api_key"),
				Model:   v.GetString("gemini.model"),
				BaseURL: v.GetString("gemini.base_url"),
			},
			OpenAI: OpenAIConfig{
				APIKey: v.GetString("openai.api_key"),
				Model:  v.GetString("openai.model"),
			},
			Ollama: OllamaConfig{
				ServerURL: v.GetString("ollama.server_url"),
				Model:     v.GetString("ollama.model"),
			},
		},
		Session: SessionConfig{
			Store:      strings.ToLower(v.GetString("session.store")),
			TTL:        v.GetDuration("session.ttl"),
			CookieName: v.GetString("session.cookie_name"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
	}
}

// Validate reports a CONFIGURATION_ERROR for settings the service cannot start without.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini:
		if strings.TrimSpace(c.LLM.Gemini.APIKey) == "" {
			return domain.NewConfigurationError("GEMINI_API_KEY is missing or empty")
		}
		if c.LLM.Gemini.Model == "" {
			return domain.NewConfigurationError("gemini.model cannot be empty")
		}
	case ProviderOpenAI:
		if strings.TrimSpace(c.LLM.OpenAI.APIKey) == "" {
			return domain.NewConfigurationError("OPENAI_API_KEY is missing or empty")
		}
	case ProviderOllama:
		if c.LLM.Ollama.ServerURL == "" || c.LLM.Ollama.Model == "" {
			return domain.NewConfigurationError("ollama.server_url and ollama.model are required")
		}
	default:
		return domain.NewConfigurationError(fmt.Sprintf("unsupported llm.provider: %q", c.LLM.Provider))
	}

	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.Address == "" {
			return domain.NewConfigurationError("redis.address is required for the redis session store")
		}
	default:
		return domain.NewConfigurationError(fmt.Sprintf("unsupported session.store: %q", c.Session.Store))
	}

	if c.Session.TTL <= 0 {
		return domain.NewConfigurationError("session.ttl must be positive")
	}
	return nil
}
