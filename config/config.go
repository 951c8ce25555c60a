package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// MongoDB (reservation records).
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB       int    `mapstructure:"REDIS_SESSION_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Salon operating window. All interval arithmetic happens in this zone.
	Timezone       string `mapstructure:"TIMEZONE"`
	OpenTime       string `mapstructure:"OPEN_TIME"`
	CloseTime      string `mapstructure:"CLOSE_TIME"`
	BreakStart     string `mapstructure:"BREAK_START"`
	BreakEnd       string `mapstructure:"BREAK_END"`
	ClosedWeekdays []int  `mapstructure:"CLOSED_WEEKDAYS"`

	// Conversation session lifetime.
	SessionTTLMinutes int `mapstructure:"SESSION_TTL_MINUTES"`

	// LINE Messaging API.
	LineChannelSecret      string `mapstructure:"LINE_CHANNEL_SECRET"`
	LineChannelAccessToken string `mapstructure:"LINE_CHANNEL_ACCESS_TOKEN"`
	LineManagerUserID      string `mapstructure:"LINE_MANAGER_USER_ID"`

	// Manager notifications: "slack", "line" or "both".
	NotificationMethod string `mapstructure:"NOTIFICATION_METHOD"`
	SlackWebhookURL    string `mapstructure:"SLACK_WEBHOOK_URL"`

	// Google service account (calendar + sheets).
	GoogleServiceAccountJSON string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_JSON"`
	GoogleCalendarID         string `mapstructure:"GOOGLE_CALENDAR_ID"`
	GoogleSheetID            string `mapstructure:"GOOGLE_SHEET_ID"`

	// Gemini (FAQ answer composition).
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Knowledge base and catalog files.
	KBPath      string `mapstructure:"KB_PATH"`
	CatalogPath string `mapstructure:"CATALOG_PATH"`

	// Daily reminder dispatch, "HH:MM" in the operating zone.
	ReminderEnabled bool   `mapstructure:"REMINDER_ENABLED"`
	ReminderTime    string `mapstructure:"REMINDER_TIME"`

	// Admin API.
	AdminToken        string `mapstructure:"ADMIN_TOKEN"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "salonai")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("TIMEZONE", "Asia/Tokyo")
	viper.SetDefault("OPEN_TIME", "09:00")
	viper.SetDefault("CLOSE_TIME", "18:00")
	viper.SetDefault("BREAK_START", "12:00")
	viper.SetDefault("BREAK_END", "13:00")
	viper.SetDefault("CLOSED_WEEKDAYS", []int{0}) // Sunday
	viper.SetDefault("SESSION_TTL_MINUTES", 30)
	viper.SetDefault("NOTIFICATION_METHOD", "slack")
	viper.SetDefault("KB_PATH", "data/kb.json")
	viper.SetDefault("CATALOG_PATH", "data/catalog.json")
	viper.SetDefault("REMINDER_ENABLED", true)
	viper.SetDefault("REMINDER_TIME", "09:00")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves the operating time zone. Every wall-clock comparison in
// the system happens in this zone; naive timestamps are converted at the
// gateway boundary before they reach the scheduling core.
func Location() *time.Location {
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Fatalf("Invalid TIMEZONE %q: %v", AppConfig.Timezone, err)
	}
	return loc
}
