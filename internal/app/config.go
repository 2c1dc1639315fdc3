package app

import "time"

type Config struct {
	HTTPAddr    string
	DatabaseURL string
	JWTSecret   string

	LogLevel string
	LogFile  string

	// FeedbackPause is the cosmetic delay between a scored answer and
	// the next question's presentation.
	FeedbackPause time.Duration
}
