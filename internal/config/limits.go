package config

import "time"

const (
	// Pagination
	DefaultPageSize = 30
	MaxPageSize     = 100

	// Typing indicators expire on their own rather than requiring a
	// "stopped typing" event from the client.
	TypingTTL = 5 * time.Second

	// Message bodies above this length are rejected before persistence.
	MaxMessageLength = 5000
)
