package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string          `yaml:"addr"`
	JWTSecret     string          `yaml:"jwt_secret"`
	APITimeout    time.Duration   `yaml:"timeout"`
	DatabasePath  string          `yaml:"database_path"`
	TokenDuration time.Duration   `yaml:"token_duration"`
	Engine        EngineConfig    `yaml:"engine"`
	Ollama        OllamaConfig    `yaml:"ollama"`
	Workspace     WorkspaceConfig `yaml:"workspace"`
}

// EngineConfig configures the question/task generation pipeline.
type EngineConfig struct {
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type OllamaConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

// WorkspaceConfig bounds the code evaluation helper.
type WorkspaceConfig struct {
	EvalTimeout time.Duration `yaml:"eval_timeout"`
	MaxFiles    int           `yaml:"max_files"`
	MaxFileSize int64         `yaml:"max_file_size"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("NOVA_ADDR", ":8080"),
		JWTSecret:     getEnv("NOVA_JWT_SECRET", "supersecretkey"),
		APITimeout:    15 * time.Second,
		DatabasePath:  getEnv("NOVA_DATABASE_PATH", "nova.db"),
		TokenDuration: 24 * time.Hour,
		Engine: EngineConfig{
			Model:   getEnv("NOVA_MODEL", "llama3"),
			Timeout: 20 * time.Second,
		},
		Ollama: OllamaConfig{
			BaseURL:                 getEnv("NOVA_OLLAMA_URL", "http://localhost:11434"),
			Timeout:                 30 * time.Second,
			Retries:                 1,
			Backoff:                 500 * time.Millisecond,
			CircuitFailureThreshold: 5,
			CircuitReset:            30 * time.Second,
		},
		Workspace: WorkspaceConfig{
			EvalTimeout: 30 * time.Second,
			MaxFiles:    20,
			MaxFileSize: 256 * 1024,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
