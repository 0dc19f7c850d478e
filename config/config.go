package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	DatabaseURL string
	ClientURL   string

	JWTSecret    []byte
	JWTExpire    time.Duration
	CookieExpire time.Duration

	TaxRate     float64
	DeliveryFee float64

	ShopTaxRate       float64
	ShopShippingPrice float64
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads configuration from the environment, after applying a .env file
// when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("failed to read .env file")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "5000")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CLIENT_URL", "http://localhost:3000")
	v.SetDefault("JWT_EXPIRE_DAYS", 30)
	v.SetDefault("JWT_COOKIE_EXPIRE_DAYS", 30)
	v.SetDefault("TAX_RATE", 0.08)
	v.SetDefault("DELIVERY_FEE", 3.99)
	v.SetDefault("SHOP_TAX_RATE", 0.05)
	v.SetDefault("SHOP_SHIPPING_PRICE", 10)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "fastfood")
	v.SetDefault("DB_SSLMODE", "disable")

	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}

	cfg := &Config{
		Port:              v.GetString("PORT"),
		Environment:       v.GetString("ENVIRONMENT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		ClientURL:         v.GetString("CLIENT_URL"),
		JWTSecret:         []byte(secret),
		JWTExpire:         time.Duration(v.GetInt("JWT_EXPIRE_DAYS")) * 24 * time.Hour,
		CookieExpire:      time.Duration(v.GetInt("JWT_COOKIE_EXPIRE_DAYS")) * 24 * time.Hour,
		TaxRate:           v.GetFloat64("TAX_RATE"),
		DeliveryFee:       v.GetFloat64("DELIVERY_FEE"),
		ShopTaxRate:       v.GetFloat64("SHOP_TAX_RATE"),
		ShopShippingPrice: v.GetFloat64("SHOP_SHIPPING_PRICE"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			v.GetString("DB_HOST"), v.GetString("DB_PORT"), v.GetString("DB_USER"),
			v.GetString("DB_PASSWORD"), v.GetString("DB_NAME"), v.GetString("DB_SSLMODE"))
	}
	return cfg, nil
}
