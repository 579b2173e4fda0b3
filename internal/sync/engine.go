package sync

import (
	"context"
	"sync"
	"time"

	"kiranapos/internal/domain/outbox"
	"kiranapos/pkg/logger"
)

// Config tunes the engine.
type Config struct {
	BatchSize  int
	Debounce   time.Duration
	PollPeriod time.Duration
}

// Result summarizes one sync pass.
type Result struct {
	Synced  int    `json:"synced"`
	Failed  int    `json:"failed"`
	Skipped bool   `json:"skipped"`
	Message string `json:"message,omitempty"`
}

// Engine drains the outbox against the remote. One pass runs at a time;
// Trigger coalesces bursts of enqueue notifications into a single pass
// after a short quiet window.
type Engine struct {
	repo   outbox.Repository
	remote RemoteAPI
	codec  *Codec
	cfg    Config

	mu        sync.Mutex
	triggerCh chan struct{}
}

// NewEngine creates a sync engine. remote may be nil, in which case every
// pass reports skipped.
func NewEngine(repo outbox.Repository, remote RemoteAPI, codec *Codec, cfg Config) *Engine {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 100 * time.Millisecond
	}
	if cfg.PollPeriod <= 0 {
		cfg.PollPeriod = 30 * time.Second
	}
	return &Engine{
		repo:      repo,
		remote:    remote,
		codec:     codec,
		cfg:       cfg,
		triggerCh: make(chan struct{}, 1),
	}
}

// Trigger requests a sync pass. Non-blocking; rapid calls collapse into
// one signal.
func (e *Engine) Trigger() {
	select {
	case e.triggerCh <- struct{}{}:
	default:
	}
}

// Ensure the engine can be wired as the services' notifier.
var _ outbox.Notifier = (*Engine)(nil)

// SyncOnce drains up to BatchSize PENDING entries.
func (e *Engine) SyncOnce(ctx context.Context) (Result, error) {
	return e.drainStatus(ctx, outbox.StatusPending)
}

// SyncFailedOnly drains up to BatchSize FAILED entries.
func (e *Engine) SyncFailedOnly(ctx context.Context) (Result, error) {
	return e.drainStatus(ctx, outbox.StatusFailed)
}

// SyncAll drains pending entries, then retries failed ones.
func (e *Engine) SyncAll(ctx context.Context) (Result, error) {
	pending, err := e.SyncOnce(ctx)
	if err != nil || pending.Skipped {
		return pending, err
	}
	failed, err := e.SyncFailedOnly(ctx)
	if err != nil {
		return pending, err
	}
	return Result{
		Synced: pending.Synced + failed.Synced,
		Failed: pending.Failed + failed.Failed,
	}, nil
}

func (e *Engine) drainStatus(ctx context.Context, status outbox.Status) (Result, error) {
	if e.remote == nil {
		return Result{Skipped: true, Message: "sync skipped: no remote configured"}, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var entries []outbox.Entry
	var err error
	if status == outbox.StatusFailed {
		entries, err = e.repo.GetFailed(ctx, e.cfg.BatchSize)
	} else {
		entries, err = e.repo.GetPending(ctx, e.cfg.BatchSize)
	}
	if err != nil {
		return Result{}, err
	}

	var result Result
	for i := range entries {
		entry := &entries[i]

		select {
		case <-ctx.Done():
			// Abandoning mid-drain is safe, untouched entries stay queued.
			return result, ctx.Err()
		default:
		}

		// Stamp the attempt before the network call so a stuck or crashed
		// send still shows up in the entry's attempt count.
		if err := e.repo.MarkAttempt(ctx, entry.ID); err != nil {
			return result, err
		}

		env, err := e.codec.Decode(entry)
		if err != nil {
			// Undecodable entries can never be sent, fail them locally.
			if markErr := e.repo.MarkFailed(ctx, entry.ID, err.Error()); markErr != nil {
				return result, markErr
			}
			result.Failed++
			continue
		}

		applied, err := e.remote.Apply(ctx, env)
		if err != nil {
			if markErr := e.repo.MarkFailed(ctx, entry.ID, err.Error()); markErr != nil {
				return result, markErr
			}
			logger.Warn(ctx, "sync entry failed", "entry_id", entry.ID, "op", Preview(entry), "error", err)
			result.Failed++
			continue
		}
		if !applied.OK {
			if markErr := e.repo.MarkFailed(ctx, entry.ID, applied.Message); markErr != nil {
				return result, markErr
			}
			logger.Warn(ctx, "sync entry rejected", "entry_id", entry.ID, "op", Preview(entry), "message", applied.Message)
			result.Failed++
			continue
		}

		if err := e.repo.MarkDone(ctx, entry.ID); err != nil {
			return result, err
		}
		result.Synced++
	}

	return result, nil
}

// RetryEntry moves one FAILED entry back to PENDING and triggers a pass.
func (e *Engine) RetryEntry(ctx context.Context, entryID int64) error {
	if err := e.repo.ResetToPending(ctx, entryID); err != nil {
		return err
	}
	e.Trigger()
	return nil
}

// ResetFailed moves all FAILED entries back to PENDING and triggers a pass.
func (e *Engine) ResetFailed(ctx context.Context) (int64, error) {
	n, err := e.repo.ResetAllFailed(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		e.Trigger()
	}
	return n, nil
}

// Run is the background loop: a debounce timer coalesces triggers, a slow
// ticker picks up anything missed. Returns when ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	debounce := time.NewTimer(e.cfg.Debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	ticker := time.NewTicker(e.cfg.PollPeriod)
	defer ticker.Stop()

	logger.Info(ctx, "sync engine started", "batch_size", e.cfg.BatchSize, "debounce", e.cfg.Debounce)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-e.triggerCh:
			// Reset on every signal so the drain fires once quiescent.
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(e.cfg.Debounce)

		case <-debounce.C:
			e.runPass(ctx)

		case <-ticker.C:
			e.runPass(ctx)
		}
	}
}

func (e *Engine) runPass(ctx context.Context) {
	result, err := e.SyncAll(ctx)
	if err != nil {
		logger.Error(ctx, "sync pass error", "error", err)
		return
	}
	if result.Skipped {
		logger.Debug(ctx, "sync pass skipped", "message", result.Message)
		return
	}
	if result.Synced > 0 || result.Failed > 0 {
		logger.Info(ctx, "sync pass complete", "synced", result.Synced, "failed", result.Failed)
	}
}
