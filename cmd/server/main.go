package main

import (
	"os"
	"time"

	"github.com/jtdaniels/QA3/internal/app"
)

func main() {
	cfg := app.Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		LogLevel: getenv("LOG_LEVEL", "info"),
		LogFile:  getenv("LOG_FILE", "/tmp/app.log"),

		FeedbackPause: getduration("FEEDBACK_PAUSE", time.Second),
	}

	if cfg.DatabaseURL == "" {
		panic("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		panic("JWT_SECRET is required")
	}

	a, err := app.New(cfg)
	if err != nil {
		panic(err)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		panic(err)
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
