// Package backup copies the project document to object storage after writes.
// Backups are best effort: failures are logged and counted, never returned
// to the request that triggered them.
package backup

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/subnets/internal/metrics"
)

// Uploader stores a snapshot under key.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte) error
}

// Worker uploads snapshots in the background. Only the newest pending
// snapshot is kept; older ones are superseded before they are sent.
type Worker struct {
	uploader Uploader
	key      string
	timeout  time.Duration
	logger   zerolog.Logger
	pending  chan []byte
}

func NewWorker(logger zerolog.Logger, uploader Uploader, key string) *Worker {
	return &Worker{
		uploader: uploader,
		key:      key,
		timeout:  30 * time.Second,
		logger:   logger.With().Str("component", "backup").Logger(),
		pending:  make(chan []byte, 1),
	}
}

// Enqueue schedules snapshot for upload without blocking. A snapshot that is
// still waiting is replaced.
func (w *Worker) Enqueue(snapshot []byte) {
	for {
		select {
		case w.pending <- snapshot:
			return
		default:
		}

		select {
		case <-w.pending:
			metrics.Backups.WithLabelValues("dropped").Inc()
		default:
		}
	}
}

// Run uploads snapshots until ctx is cancelled, then flushes whatever is
// still pending.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Str("key", w.key).Msg("backup worker started")
	for {
		select {
		case snapshot := <-w.pending:
			w.upload(ctx, snapshot)
		case <-ctx.Done():
			select {
			case snapshot := <-w.pending:
				w.upload(context.WithoutCancel(ctx), snapshot)
			default:
			}
			w.logger.Info().Msg("backup worker stopped")
			return nil
		}
	}
}

func (w *Worker) upload(ctx context.Context, snapshot []byte) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	if err := w.uploader.Upload(ctx, w.key, snapshot); err != nil {
		metrics.Backups.WithLabelValues("error").Inc()
		w.logger.Error().Err(err).Str("key", w.key).Msg("backup upload failed")
		return
	}
	metrics.Backups.WithLabelValues("ok").Inc()
	w.logger.Debug().Str("key", w.key).Int("bytes", len(snapshot)).
		Dur("duration", time.Since(start)).Msg("backup uploaded")
}
