package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/domain"
)

// Config holds all configuration for the bot.
type Config struct {
	Token   string
	AdminID int64

	UPIID      string
	PayeeName  string
	PricePaise int64 // per account

	AdminContact string // t.me link shown under "Contact Admin"

	WebhookURL string // empty switches the bot to long polling
	Port       string

	DataFile   string
	BackupsDir string
	LogLevel   string
}

// Load reads configuration from the environment, after loading .env if one
// is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Token:      os.Getenv("TG_TOKEN"),
		UPIID:      getEnvWithDefault("UPI_ID", "shubham4u@fam"),
		PayeeName:  getEnvWithDefault("PAYEE_NAME", "Twitter Seller Bot"),
		AdminContact: getEnvWithDefault("ADMIN_CONTACT", "https://t.me/SHUBHxAR"),
		WebhookURL:   os.Getenv("WEBHOOK_URL"),
		Port:       getEnvWithDefault("PORT", "3000"),
		DataFile:   getEnvWithDefault("DATA_FILE", "data/shop.json"),
		BackupsDir: getEnvWithDefault("BACKUP_DIR", "backups"),
		LogLevel:   getEnvWithDefault("LOG_LEVEL", "info"),
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("TG_TOKEN is required")
	}

	adminID, err := strconv.ParseInt(os.Getenv("ADMIN_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_ID is required and must be a numeric Telegram id")
	}
	cfg.AdminID = adminID

	price := getEnvWithDefault("PRICE_PER_ACCOUNT", "5")
	cfg.PricePaise, err = domain.ParseRupees(price)
	if err != nil || cfg.PricePaise <= 0 {
		return nil, fmt.Errorf("PRICE_PER_ACCOUNT %q is not a valid price", price)
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
