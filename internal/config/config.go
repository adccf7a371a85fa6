package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	OpenAI    OpenAIConfig
	Mail      MailConfig
	Twilio    TwilioConfig
	GitHub    GitHubConfig
	Backup    BackupConfig
	Broadcast BroadcastConfig
	App       AppConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Path string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	CallerID   string
}

type GitHubConfig struct {
	Token string
	Repo  string
	Path  string
}

type BackupConfig struct {
	Endpoint   string
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Passphrase string
	Interval   time.Duration
}

type BroadcastConfig struct {
	// ReminderWeekday gates the admin reminder broadcast (spelled like
	// time.Weekday, e.g. "Friday"). Empty allows any day.
	ReminderWeekday string
	Dedup           bool
}

type AppConfig struct {
	EmailDomain string
	LogLevel    string
}

func Load() (*Config, error) {
	// Load .env if present; in production everything comes from the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Path: getEnv("PLANNER_DB_PATH", "planner.db"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		},
		Mail: MailConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvAsInt("SMTP_PORT", 465),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		Twilio: TwilioConfig{
			AccountSID: os.Getenv("TWILIO_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			CallerID:   os.Getenv("TWILIO_PHONE_NUMBER"),
		},
		GitHub: GitHubConfig{
			Token: os.Getenv("GITHUB_TOKEN"),
			Repo:  getEnv("GITHUB_REPO", "sandhyasneha/streamlit-call-campaign"),
			Path:  getEnv("GITHUB_PATH", "uploaded_audio"),
		},
		Backup: BackupConfig{
			Endpoint:   os.Getenv("BACKUP_S3_ENDPOINT"),
			Bucket:     os.Getenv("BACKUP_S3_BUCKET"),
			Region:     getEnv("BACKUP_S3_REGION", "auto"),
			AccessKey:  os.Getenv("BACKUP_S3_ACCESS_KEY"),
			SecretKey:  os.Getenv("BACKUP_S3_SECRET_KEY"),
			Passphrase: os.Getenv("BACKUP_PASSPHRASE"),
			Interval:   getEnvAsDuration("BACKUP_INTERVAL", 24*time.Hour),
		},
		Broadcast: BroadcastConfig{
			ReminderWeekday: getEnv("REMINDER_WEEKDAY", "Friday"),
			Dedup:           getEnvAsBool("REMINDER_DEDUP", true),
		},
		App: AppConfig{
			EmailDomain: getEnv("PLANNER_EMAIL_DOMAIN", "nttdata.com"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// Validate checks the settings the planner server cannot run without.
// The callcast utility skips it; Twilio settings are checked at use.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
