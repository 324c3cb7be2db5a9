package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Decoding-DataScience/NutridecodeProd/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// requiredVars must all be present before the server starts; a missing
// one is fatal.
var requiredVars = []string{
	"OPENAI_API_KEY",
	"ELEVENLABS_API_KEY",
	"JWT_SECRET",
	"DB_HOST",
	"DB_USER",
	"DB_PASSWORD",
	"DB_NAME",
	"DB_PORT",
}

// Settings carries the tunable policy values. The dedup windows are
// product policy, not contract, so they are configurable with sane
// defaults.
type Settings struct {
	OpenAIBaseURL   string
	OpenAIKey       string
	TTSBaseURL      string
	TTSKey          string
	TTSVoiceID      string
	TokensPerMinute int
	// DuplicateSaveWindow rejects re-saving the same product name for
	// the same user.
	DuplicateSaveWindow time.Duration
	// HistoryDedupWindow collapses near-duplicate saves in history views.
	HistoryDedupWindow time.Duration
}

// Load reads .env, verifies every required variable is set, and returns
// the runtime settings. Missing configuration fails fast.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}

	var missing []string
	for _, name := range requiredVars {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missing)
	}

	s := &Settings{
		OpenAIBaseURL:       envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		TTSBaseURL:          envOr("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io/v1"),
		TTSKey:              os.Getenv("ELEVENLABS_API_KEY"),
		TTSVoiceID:          envOr("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
		TokensPerMinute:     envIntOr("OPENAI_TOKENS_PER_MINUTE", 90000),
		DuplicateSaveWindow: time.Duration(envIntOr("DUPLICATE_SAVE_WINDOW_MINUTES", 60)) * time.Minute,
		HistoryDedupWindow:  time.Duration(envIntOr("HISTORY_DEDUP_WINDOW_SECONDS", 60)) * time.Second,
	}
	return s, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envIntOr(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", name, err)
	}
	return n
}

func InitDB() *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	DB = db
	return db
}

// Migrate applies the schema. Split out so tests can run it against an
// in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.FoodAnalysis{},
		&models.UserPreferences{},
		&models.WaitlistEntry{},
		&models.Alert{},
		&models.UserDevice{},
	)
}
