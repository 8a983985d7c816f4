package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	TrustProxyHeaders bool   `mapstructure:"TRUST_PROXY_HEADERS"`

	// User store.
	UserStore    string `mapstructure:"USER_STORE"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis backs the notification queue.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisQueueDB      int    `mapstructure:"REDIS_QUEUE_DB"`
	QueueMode         string `mapstructure:"QUEUE_MODE"`
	WorkerConcurrency int    `mapstructure:"WORKER_CONCURRENCY"` // asynq only; the inline pool is unbounded

	// Push gateway.
	PushProvider        string        `mapstructure:"PUSH_PROVIDER"`
	ExpoAccessToken     string        `mapstructure:"EXPO_ACCESS_TOKEN"`
	ExpoBaseURL         string        `mapstructure:"EXPO_BASE_URL"`
	PushChunkSize       int           `mapstructure:"PUSH_CHUNK_SIZE"`
	ReceiptCheckDelay   time.Duration `mapstructure:"RECEIPT_CHECK_DELAY"`
	NotificationTimeout time.Duration `mapstructure:"NOTIFICATION_TIMEOUT"`

	// Firebase (FCM gateway and Firestore user store).
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
}

const (
	UserStoreMongo     = "mongo"
	UserStoreFirestore = "firestore"

	QueueModeAsynq  = "asynq"
	QueueModeInline = "inline"

	PushProviderExpo = "expo"
	PushProviderFCM  = "fcm"
)

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("TRUST_PROXY_HEADERS", true)

	v.SetDefault("USER_STORE", UserStoreMongo)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "sitetrack")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_QUEUE_DB", 3)
	v.SetDefault("QUEUE_MODE", QueueModeAsynq)
	v.SetDefault("WORKER_CONCURRENCY", 10)

	v.SetDefault("PUSH_PROVIDER", PushProviderExpo)
	v.SetDefault("EXPO_ACCESS_TOKEN", "")
	v.SetDefault("EXPO_BASE_URL", "https://exp.host/--/api/v2")
	v.SetDefault("PUSH_CHUNK_SIZE", 0)
	v.SetDefault("RECEIPT_CHECK_DELAY", "15s")
	v.SetDefault("NOTIFICATION_TIMEOUT", "2m")

	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
