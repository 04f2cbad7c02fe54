package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me-in-production"

type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	Transactions   bool
	StoreDriver    string // "mongo" or "memory"
	UploadDir      string
	PagesDir       string
	MaxUploadMB    int64
	S3Bucket       string
	S3Region       string
	S3AccessKeyID  string
	S3SecretKey    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	CacheTTL       time.Duration
	JWTSecret      string
	JWTTTL         time.Duration
	AuthRequired   bool
	MetadataLookup bool
	RequestTimeout time.Duration
	LogLevel       string
	LogJSON        bool
	LogFile        string
	LogMaxSizeMB   int
	LogMaxBackups  int
	LogMaxAgeDays  int
}

// Load reads configuration from the environment. Call godotenv.Load first
// to pick up a .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "3030")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DB", "bookstore")
	v.SetDefault("MONGODB_TRANSACTIONS", false)
	v.SetDefault("STORE_DRIVER", "mongo")
	v.SetDefault("UPLOAD_DIR", "book_imgs")
	v.SetDefault("PAGES_DIR", "public")
	v.SetDefault("MAX_UPLOAD_MB", 5)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 300)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL_HOURS", 24*7)
	v.SetDefault("AUTH_REQUIRED", false)
	v.SetDefault("METADATA_LOOKUP", false)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 15)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 30)

	maxMB := v.GetInt64("MAX_UPLOAD_MB")
	if maxMB <= 0 {
		maxMB = 5
	}
	cfg := &Config{
		Port:           v.GetString("PORT"),
		MongoURI:       v.GetString("MONGODB_URI"),
		DBName:         v.GetString("MONGODB_DB"),
		Transactions:   v.GetBool("MONGODB_TRANSACTIONS"),
		StoreDriver:    strings.ToLower(v.GetString("STORE_DRIVER")),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		PagesDir:       v.GetString("PAGES_DIR"),
		MaxUploadMB:    maxMB,
		S3Bucket:       v.GetString("AWS_S3_BUCKET"),
		S3Region:       v.GetString("AWS_REGION"),
		S3AccessKeyID:  v.GetString("AWS_ACCESS_KEY_ID"),
		S3SecretKey:    v.GetString("AWS_SECRET_ACCESS_KEY"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		CacheTTL:       time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTTTL:         time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour,
		AuthRequired:   v.GetBool("AUTH_REQUIRED"),
		MetadataLookup: v.GetBool("METADATA_LOOKUP"),
		RequestTimeout: time.Duration(v.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogJSON:        v.GetBool("LOG_JSON"),
		LogFile:        v.GetString("LOG_FILE"),
		LogMaxSizeMB:   v.GetInt("LOG_MAX_SIZE_MB"),
		LogMaxBackups:  v.GetInt("LOG_MAX_BACKUPS"),
		LogMaxAgeDays:  v.GetInt("LOG_MAX_AGE_DAYS"),
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "mongo", "memory":
	default:
		return errors.New("STORE_DRIVER must be mongo or memory")
	}
	if c.AuthRequired && (c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret) {
		return errors.New("JWT_SECRET must be set to a strong secret when AUTH_REQUIRED is on")
	}
	return nil
}

// MaxUploadBytes is the upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}
