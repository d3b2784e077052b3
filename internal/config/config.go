package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string
	API      APIConfig
	Store    StoreConfig
	Pricing  PricingConfig
	Search   SearchConfig
	Checkout CheckoutConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StoreConfig selects the persisted client state backend.
type StoreConfig struct {
	Backend  string // memory | file | redis
	FilePath string
	Redis    RedisConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PricingConfig carries the shipping campaign values. The defaults match
// the backend's current campaign: flat 29.99 shipping, free at 150 and up.
type PricingConfig struct {
	FlatShipping          string
	FreeShippingThreshold string
}

type SearchConfig struct {
	Debounce time.Duration
}

type CheckoutConfig struct {
	RedirectDelay time.Duration
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("API_BASE_URL", "https://workintech-fe-ecommerce.onrender.com")
	viper.SetDefault("API_TIMEOUT_SECONDS", 15)
	viper.SetDefault("STORE_BACKEND", "file")
	viper.SetDefault("STORE_FILE_PATH", ".storefront-state.json")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("FLAT_SHIPPING", "29.99")
	viper.SetDefault("FREE_SHIPPING_THRESHOLD", "150")
	viper.SetDefault("SEARCH_DEBOUNCE_MS", 500)
	viper.SetDefault("CHECKOUT_REDIRECT_DELAY_MS", 3000)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Env: viper.GetString("APP_ENV"),
		API: APIConfig{
			BaseURL: viper.GetString("API_BASE_URL"),
			Timeout: time.Duration(viper.GetInt("API_TIMEOUT_SECONDS")) * time.Second,
		},
		Store: StoreConfig{
			Backend:  viper.GetString("STORE_BACKEND"),
			FilePath: viper.GetString("STORE_FILE_PATH"),
			Redis: RedisConfig{
				Addr:     viper.GetString("REDIS_ADDR"),
				Password: viper.GetString("REDIS_PASSWORD"),
				DB:       viper.GetInt("REDIS_DB"),
			},
		},
		Pricing: PricingConfig{
			FlatShipping:          viper.GetString("FLAT_SHIPPING"),
			FreeShippingThreshold: viper.GetString("FREE_SHIPPING_THRESHOLD"),
		},
		Search: SearchConfig{
			Debounce: time.Duration(viper.GetInt("SEARCH_DEBOUNCE_MS")) * time.Millisecond,
		},
		Checkout: CheckoutConfig{
			RedirectDelay: time.Duration(viper.GetInt("CHECKOUT_REDIRECT_DELAY_MS")) * time.Millisecond,
		},
	}
}
