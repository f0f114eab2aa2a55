package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM struct {
		BaseURL     string  `yaml:"base_url"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
		APIKey      string  `yaml:"-"`
	} `yaml:"llm"`

	Embeddings struct {
		BaseURL   string `yaml:"base_url"`
		Model     string `yaml:"model"`
		VectorDim int    `yaml:"vector_dim"`
		APIKey    string `yaml:"-"`
	} `yaml:"embeddings"`

	Database struct {
		URL       string `yaml:"url"`
		TableName string `yaml:"table_name"`
		BatchSize int    `yaml:"batch_size"`
	} `yaml:"database"`

	Retriever struct {
		K int `yaml:"k"`
	} `yaml:"retriever"`

	Chunker struct {
		ChunkSize      int `yaml:"chunk_size"`
		Overlap        int `yaml:"overlap"`
		MinChunkLength int `yaml:"min_chunk_length"`
	} `yaml:"chunker"`

	Scraper struct {
		RateLimit        float64 `yaml:"rate_limit"`
		TimeoutSeconds   int     `yaml:"timeout_seconds"`
		MinContentLength int     `yaml:"min_content_length"`
	} `yaml:"scraper"`

	Ingest struct {
		DataFile string `yaml:"data_file"`
	} `yaml:"ingest"`
}

// LoadDotenv reads a .env file if one exists. A missing file is fine; the
// required variables can come from the process environment instead.
func LoadDotenv() {
	_ = godotenv.Load()
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/askready/config.yaml"),
			"/etc/askready/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "https://api.groq.com/openai/v1"
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "llama3-8b-8192"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 1024
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.2
	}

	if config.Embeddings.BaseURL == "" {
		config.Embeddings.BaseURL = "https://api.openai.com/v1"
	}
	if config.Embeddings.Model == "" {
		config.Embeddings.Model = "text-embedding-3-small"
	}
	if config.Embeddings.VectorDim == 0 {
		config.Embeddings.VectorDim = 1536
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "disaster_prep"
	}
	if config.Database.BatchSize == 0 {
		config.Database.BatchSize = 100
	}

	if config.Retriever.K == 0 {
		config.Retriever.K = 5
	}

	if config.Chunker.ChunkSize == 0 {
		config.Chunker.ChunkSize = 500
	}
	if config.Chunker.Overlap == 0 {
		config.Chunker.Overlap = 50
	}
	if config.Chunker.MinChunkLength == 0 {
		config.Chunker.MinChunkLength = 50
	}

	if config.Scraper.RateLimit == 0 {
		config.Scraper.RateLimit = 0.5
	}
	if config.Scraper.TimeoutSeconds == 0 {
		config.Scraper.TimeoutSeconds = 30
	}
	if config.Scraper.MinContentLength == 0 {
		config.Scraper.MinContentLength = 200
	}

	if config.Ingest.DataFile == "" {
		config.Ingest.DataFile = "data/scraped_disaster_prep_data.json"
	}
}

func mergeWithEnv(config *Config) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		config.LLM.APIKey = key
	}
	if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if key := os.Getenv("EMBEDDINGS_API_KEY"); key != "" {
		config.Embeddings.APIKey = key
	} else if config.Embeddings.APIKey == "" {
		config.Embeddings.APIKey = config.LLM.APIKey
	}
	if baseURL := os.Getenv("EMBEDDINGS_BASE_URL"); baseURL != "" {
		config.Embeddings.BaseURL = baseURL
	}
}
