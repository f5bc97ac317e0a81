package domain

import "time"

// Config carries the runtime settings handlers and services need.
type Config struct {
	FQDN          string
	JWTSecret     string
	TokenDuration time.Duration
}
