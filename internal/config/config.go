package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Ai        AIConfig
	Retrieval RetrievalConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SessionConfig struct {
	Store string // "memory" or "redis"
	TTL   time.Duration
}

type AIConfig struct {
	LLMProvider       string // "ollama" or "openai"
	LLMModel          string
	OpenAIKey         string
	OllamaBaseURL     string
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaEmbedModel  string
	GeminiKey         string
	RerankerURL       string
	RerankerKey       string
	RerankerModel     string
	Timeout           time.Duration
}

type RetrievalConfig struct {
	VectorBackend         string // "pgvector" or "pinecone"
	PineconeHost          string
	PineconeKey           string
	Namespace             string
	TopK                  int
	QueryVariants         int
	RerankTopK            int
	RelevanceThreshold    float64
	HistoryWindow         int
	MaxMessageLength      int
	ClarificationAttempts int
	ChunkSize             int
	ChunkOverlap          int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Session: SessionConfig{
			Store: getEnv("SESSION_STORE", "memory"),
			TTL:   time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3.2:latest"),
			OpenAIKey:         getEnv("OPENAI_API_KEY", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			GeminiKey:         getEnv("GOOGLE_GEMINI_API_KEY", ""),
			RerankerURL:       getEnv("RERANKER_URL", ""),
			RerankerKey:       getEnv("RERANKER_API_KEY", ""),
			RerankerModel:     getEnv("RERANKER_MODEL", "jina-reranker-v2-base-multilingual"),
			Timeout:           time.Duration(getEnvAsInt("AI_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Retrieval: RetrievalConfig{
			VectorBackend:         getEnv("VECTOR_BACKEND", "pgvector"),
			PineconeHost:          getEnv("PINECONE_HOST", ""),
			PineconeKey:           getEnv("PINECONE_API_KEY", ""),
			Namespace:             getEnv("RETRIEVAL_NAMESPACE", "default"),
			TopK:                  getEnvAsInt("RETRIEVAL_TOP_K", 5),
			QueryVariants:         getEnvAsInt("QUERY_VARIANTS", 3),
			RerankTopK:            getEnvAsInt("RERANK_TOP_K", 3),
			RelevanceThreshold:    getEnvAsFloat("RELEVANCE_THRESHOLD", 0.7),
			HistoryWindow:         getEnvAsInt("HISTORY_WINDOW", 5),
			MaxMessageLength:      getEnvAsInt("MAX_MESSAGE_LENGTH", 4000),
			ClarificationAttempts: getEnvAsInt("CLARIFICATION_MAX_ATTEMPTS", 2),
			ChunkSize:             getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap:          getEnvAsInt("CHUNK_OVERLAP", 150),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
