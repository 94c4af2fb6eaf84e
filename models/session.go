package models

import "time"

// SessionSummary describes a stored conversation for listings.
type SessionSummary struct {
	ID       string    `json:"id" yaml:"id"`
	Messages int       `json:"messages" yaml:"messages"`
	FirstAt  time.Time `json:"first_at" yaml:"first_at"`
	LastAt   time.Time `json:"last_at" yaml:"last_at"`
}
