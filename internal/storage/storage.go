package storage

import (
	"context"
	"time"
)

// Trend pairs a trending topic with the image chosen to represent it.
type Trend struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// RunRecord represents the outcome of a single trends run.
type RunRecord struct {
	ID        string
	Country   string
	Source    string // tier that produced the topics, e.g. "getdaytrends", "trends24", "static"
	Trends    []Trend
	Duration  time.Duration
	CreatedAt time.Time
}

// Filter allows querying for specific RunRecords.
type Filter struct {
	Country string
	Source  string
	Since   *time.Time
	Limit   int
	Offset  int
}

// Backend defines the interface for storing and querying run records.
type Backend interface {
	Save(ctx context.Context, record *RunRecord) error
	Query(ctx context.Context, filter Filter) ([]*RunRecord, error)
	Close() error
}
