// Package store persists the run audit log: one record per detection run with
// its final summary or failure message. Detectors never read it back.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/claims-risk-cli/internal/config"
	"github.com/sells-group/claims-risk-cli/internal/model"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = eris.New("store: run not found")

// defaultListLimit caps ListRuns when no limit is given.
const defaultListLimit = 100

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Source string          `json:"source,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the run audit log.
type Store interface {
	CreateRun(ctx context.Context, source string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, summary *model.Summary) error
	FailRun(ctx context.Context, runID string, message string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open connects to the configured backend and migrates it. The "none"
// driver returns a nil Store and no error. Transient connection failures
// are retried with DefaultRetryPolicy.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	return OpenWithRetry(ctx, cfg, DefaultRetryPolicy())
}

// OpenWithRetry is Open with an explicit retry policy.
func OpenWithRetry(ctx context.Context, cfg config.StoreConfig, p RetryPolicy) (Store, error) {
	var connect func(ctx context.Context) (Store, error)
	switch cfg.Driver {
	case "none":
		return nil, nil
	case "", "sqlite":
		connect = func(context.Context) (Store, error) { return NewSQLite(cfg.DatabaseURL) }
	case "postgres":
		connect = func(ctx context.Context) (Store, error) {
			return NewPostgres(ctx, cfg.DatabaseURL, &PoolConfig{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
		}
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}

	s, err := withRetry(ctx, p, "connect", connect)
	if err != nil {
		return nil, err
	}

	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func listLimit(n int) int {
	if n <= 0 {
		return defaultListLimit
	}
	return n
}
