package config

import (
	"fmt"
	"os"
	"strings"
)

// Config carries everything the process reads from the environment.
type Config struct {
	Port           string
	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
	RedisAddr      string
	RedisPassword  string
	JWTSecret      string
	AllowedOrigins []string
}

// Load reads the configuration from the environment. Defaults match the
// local docker-compose setup; JWTSecret has no default and callers must
// refuse to start without it.
func Load() Config {
	origins := []string{"http://localhost:3000"}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	return Config{
		Port:           getEnv("APP_PORT", "8080"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBUser:         getEnv("DB_USER", "user"),
		DBPassword:     getEnv("DB_PASSWORD", "password"),
		DBName:         getEnv("DB_NAME", "homechatdb"),
		DBPort:         getEnv("DB_PORT", "5432"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6380"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigins: origins,
	}
}

// DSN builds the PostgreSQL connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
