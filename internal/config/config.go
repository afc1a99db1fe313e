package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	StorageBackend string // "postgres" or "sqlite"
	SQLitePath     string
	DBUser         string
	DBPassword     string
	DBName         string
	DBHost         string
	DBPort         string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	BotToken    string
	BotUsername string
	AdminIDs    []int64

	DefaultRegion  string
	GroupChatID    int64
	InviteTTLHours int

	CommissionPerApprovedCents int64
	MinWithdrawCents           int64
	Currency                   string
	PointsPerReferral          int64

	SessionTTLMinutes  int
	ReminderAfterHours int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		StorageBackend: getEnv("STORAGE_BACKEND", "postgres"),
		SQLitePath:     getEnv("SQLITE_PATH", "referral.db"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "referral_bot"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		BotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		BotUsername: getEnv("BOT_USERNAME", "referral_bot"),
		AdminIDs:    parseIDList(getEnv("ADMIN_USER_IDS", "")),

		DefaultRegion:  getEnv("DEFAULT_REGION", "CR"),
		GroupChatID:    getEnvInt64("GROUP_CHAT_ID", 0),
		InviteTTLHours: getEnvInt("INVITE_TTL_HOURS", 12),

		CommissionPerApprovedCents: getEnvInt64("COMMISSION_PER_APPROVED_CENTS", 100),
		MinWithdrawCents:           getEnvInt64("MIN_WITHDRAW_CENTS", 2500),
		Currency:                   getEnv("CURRENCY", "USD"),
		PointsPerReferral:          getEnvInt64("POINTS_PER_REFERRAL", 1),

		SessionTTLMinutes:  getEnvInt("SESSION_TTL_MINUTES", 30),
		ReminderAfterHours: getEnvInt("WITHDRAW_REMINDER_HOURS", 24),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid integer for %s, using default %d", key, fallback)
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
		log.Printf("Invalid integer for %s, using default %d", key, fallback)
	}
	return fallback
}

func parseIDList(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("Skipping invalid admin id %q", part)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
