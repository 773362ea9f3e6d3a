package state

import (
	"context"
	"time"
)

// PreferenceStore is the small key/value store that outlives a session.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type HistoryStore interface {
	RecordRun(ctx context.Context, rec RunRecord) (int64, error)
	GetSummary(ctx context.Context) (Summary, error)
	RecentRuns(ctx context.Context, limit int) ([]RunRecord, error)
}

type Store interface {
	PreferenceStore
	HistoryStore
	EnsureSchema(ctx context.Context) error
	SaveSettings(ctx context.Context, values map[string]string) error
	LoadSettings(ctx context.Context) (map[string]string, error)
	Close() error
}

const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// RunRecord is the metadata of one execution. Source text is never stored.
type RunRecord struct {
	ID          int64
	SessionID   string
	LanguageID  string
	Outcome     string
	StatusCode  int
	Message     string
	SourceBytes int
	OutputBytes int
	DurationMS  int64
	StartTS     time.Time
}

type Summary struct {
	Runs      int
	Succeeded int
	Failed    int
	Languages int
}
