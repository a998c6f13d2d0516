package orchestrators

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"coursedesk/internal/domain/session"
)

// ArchiveSessionStore defines the session store interface for the archive sweep.
type ArchiveSessionStore interface {
	ListCompletedUnarchived(ctx context.Context) ([]session.Session, error)
	MarkArchived(ctx context.Context, id string) error
}

// ArchiveSweepDeps holds dependencies for the archive sweep.
type ArchiveSweepDeps struct {
	SessionStore ArchiveSessionStore
	Now          func() time.Time
}

// ArchiveSweepConfig controls the background archival scheduler.
type ArchiveSweepConfig struct {
	Interval time.Duration // how often the sweep runs
	Dwell    time.Duration // how long a completed session rests before archival
	Enabled  bool
}

// DefaultArchiveSweepConfig returns the production defaults: a daily sweep
// archiving sessions completed more than thirty days ago.
func DefaultArchiveSweepConfig() ArchiveSweepConfig {
	return ArchiveSweepConfig{
		Interval: 24 * time.Hour,
		Dwell:    30 * 24 * time.Hour,
		Enabled:  true,
	}
}

// ExecuteArchiveSweep archives every completed session that has rested past
// the dwell threshold. The sweep is idempotent: already-archived sessions are
// never listed, and re-running it archives nothing new.
// PRE: Dwell is positive
// POST: Returns the number of sessions archived this pass
// INVARIANT: A failure on one session never blocks the rest of the sweep
func ExecuteArchiveSweep(ctx context.Context, dwell time.Duration, deps ArchiveSweepDeps) (int, error) {
	candidates, err := deps.SessionStore.ListCompletedUnarchived(ctx)
	if err != nil {
		return 0, err
	}

	now := deps.Now()
	archived := 0
	for _, s := range candidates {
		if !s.Archivable(now, dwell) {
			continue
		}
		if err := deps.SessionStore.MarkArchived(ctx, s.ID); err != nil {
			slog.Error("archive_event", "event", "mark_archived_failed", "session_id", s.ID, "error", err)
			continue
		}
		archived++
		slog.Info("archive_event", "event", "session_archived", "session_id", s.ID, "completed_at", s.LastStatusChange)
	}

	if archived > 0 {
		slog.Info("archive_event", "event", "sweep_complete", "archived", archived, "candidates", len(candidates))
	}
	return archived, nil
}

// archiveSweepMu serializes sweeps so an overlapping trigger (scheduler tick
// plus manual kick) cannot run two passes at once.
var archiveSweepMu sync.Mutex

// RunArchiveSweep is the single-flight entry point used by both the
// scheduler and the manual trigger.
func RunArchiveSweep(ctx context.Context, dwell time.Duration, deps ArchiveSweepDeps) (int, error) {
	archiveSweepMu.Lock()
	defer archiveSweepMu.Unlock()
	return ExecuteArchiveSweep(ctx, dwell, deps)
}

// StartArchiveScheduler starts a background goroutine that periodically runs
// the archive sweep.
// PRE: Context is valid, deps are initialized
// POST: Goroutine started, returns cancel function
func StartArchiveScheduler(ctx context.Context, deps ArchiveSweepDeps, cfg ArchiveSweepConfig) func() {
	if !cfg.Enabled {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := RunArchiveSweep(ctx, cfg.Dwell, deps); err != nil {
					slog.Error("archive_event", "event", "sweep_failed", "error", err)
				}
			}
		}
	}()

	return cancel
}
