package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Gcp      GCPConfig
	Keys     APIKeys
	Ai       AIConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type GCPConfig struct {
	Project             string
	Bucket              string
	SignedURLExpiryDays int
	TTSVoice            string
	TTSLanguage         string
}

type APIKeys struct {
	GoogleGemini string
}

type AIConfig struct {
	GeminiModel    string
	EmbeddingModel string
}

type PipelineConfig struct {
	TriggerSubject  string // NATS subject the upload-confirmed event is published on
	ClipDurationSec float64
	OutroAssetPath  string // object path of the fixed outro; empty disables the outro
	SpeechLanguage  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Gcp: GCPConfig{
			Project:             getEnv("GOOGLE_CLOUD_PROJECT", ""),
			Bucket:              getEnv("GCS_BUCKET", "cooking-coach-media"),
			SignedURLExpiryDays: getEnvAsInt("GCS_SIGNED_URL_EXPIRY_DAYS", 7),
			TTSVoice:            getEnv("TTS_VOICE", "ja-JP-Chirp3-HD-Aoede"),
			TTSLanguage:         getEnv("TTS_LANGUAGE", "ja-JP"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			EmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
		},
		Pipeline: PipelineConfig{
			TriggerSubject:  getEnv("PIPELINE_TRIGGER_SUBJECT", "pipeline.session.uploaded"),
			ClipDurationSec: getEnvAsFloat("PIPELINE_CLIP_DURATION_SEC", 15),
			OutroAssetPath:  getEnv("PIPELINE_OUTRO_ASSET_PATH", "assets/outro.mp4"),
			SpeechLanguage:  getEnv("SPEECH_LANGUAGE", "ja-JP"),
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
