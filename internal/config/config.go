package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Docs      DocsConfig      `mapstructure:"docs"`
	Chunking  ChunkingConfig  `mapstructure:"chunking"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Store     StoreConfig     `mapstructure:"store"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

// DocsConfig holds the document library layout
type DocsConfig struct {
	DataDir string `mapstructure:"data_dir"` // parent of candidates/ and jobs/
}

// ChunkingConfig controls how documents are split before indexing
type ChunkingConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
}

// EmbeddingConfig holds embedding service configuration
type EmbeddingConfig struct {
	Provider string       `mapstructure:"provider"` // ollama, openai
	Ollama   OllamaConfig `mapstructure:"ollama"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
}

// OllamaConfig holds Ollama embedding configuration
type OllamaConfig struct {
	Host    string `mapstructure:"host"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

// OpenAIConfig holds OpenAI-compatible embedding configuration
type OpenAIConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	APIKeyEnv string `mapstructure:"api_key_env"`
	Timeout   int    `mapstructure:"timeout"` // seconds
}

// StoreConfig holds vector store configuration
type StoreConfig struct {
	Type       string `mapstructure:"type"` // local, qdrant
	Path       string `mapstructure:"path"` // local store directory
	Host       string `mapstructure:"host"` // qdrant host
	Collection string `mapstructure:"collection"`
	Dimension  int    `mapstructure:"dimension"`
}

// RetrievalConfig controls similarity search at analysis time
type RetrievalConfig struct {
	TopK int `mapstructure:"top_k"`
	// Scope decides which chunks are eligible during retrieval.
	// "global" searches the whole corpus, including chunks from documents
	// unrelated to the candidate/job pair under analysis.
	Scope string `mapstructure:"scope"`
}

// GeminiConfig holds generation backend configuration
type GeminiConfig struct {
	APIKeyEnv string `mapstructure:"api_key_env"`
	Model     string `mapstructure:"model"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:          "0.0.0.0",
			Port:          8000,
			AllowedOrigin: "http://localhost:5173",
		},
		Docs: DocsConfig{
			DataDir: "data",
		},
		Chunking: ChunkingConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
		Embedding: EmbeddingConfig{
			Provider: "ollama",
			Ollama: OllamaConfig{
				Host:    "http://localhost:11434",
				Model:   "nomic-embed-text",
				Timeout: 120,
			},
			OpenAI: OpenAIConfig{
				BaseURL:   "https://api.openai.com/v1",
				Model:     "text-embedding-3-small",
				APIKeyEnv: "OPENAI_API_KEY",
				Timeout:   30,
			},
		},
		Store: StoreConfig{
			Type:       "local",
			Path:       filepath.Join("data", "vector_store"),
			Host:       "http://localhost:6333",
			Collection: "interviewlens",
			Dimension:  768,
		},
		Retrieval: RetrievalConfig{
			TopK:  5,
			Scope: "global",
		},
		Gemini: GeminiConfig{
			APIKeyEnv: "GOOGLE_API_KEY",
			Model:     "gemini-1.5-flash",
		},
	}
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		// Look for config in default locations
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".interviewlens"))
		}
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variable overrides
	viper.SetEnvPrefix("INTERVIEWLENS")
	viper.AutomaticEnv()

	// Bind environment variables
	viper.BindEnv("server.host", "INTERVIEWLENS_SERVER_HOST")
	viper.BindEnv("server.port", "INTERVIEWLENS_SERVER_PORT")
	viper.BindEnv("server.allowed_origin", "INTERVIEWLENS_ALLOWED_ORIGIN")
	viper.BindEnv("docs.data_dir", "INTERVIEWLENS_DATA_DIR")
	viper.BindEnv("embedding.provider", "INTERVIEWLENS_EMBEDDING_PROVIDER")
	viper.BindEnv("embedding.ollama.host", "INTERVIEWLENS_OLLAMA_HOST")
	viper.BindEnv("embedding.ollama.model", "INTERVIEWLENS_OLLAMA_MODEL")
	viper.BindEnv("store.type", "INTERVIEWLENS_STORE_TYPE")
	viper.BindEnv("store.path", "INTERVIEWLENS_STORE_PATH")
	viper.BindEnv("store.host", "INTERVIEWLENS_STORE_HOST")
	viper.BindEnv("store.collection", "INTERVIEWLENS_STORE_COLLECTION")
	viper.BindEnv("retrieval.top_k", "INTERVIEWLENS_RETRIEVAL_TOP_K")
	viper.BindEnv("gemini.model", "INTERVIEWLENS_GEMINI_MODEL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
