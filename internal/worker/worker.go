// Package worker pushes booking snapshots to an external mirror in
// the background so booking flows never block on slow remote writes.
package worker

import (
	"context"
	"time"

	"wayfare/internal/models"

	"github.com/rs/zerolog"
)

// MirrorClient applies a full booking snapshot to the mirror target.
type MirrorClient interface {
	ReplaceBookings(ctx context.Context, bookings []models.Booking) error
}

// MirrorWorker consumes booking snapshots from a bounded queue and
// writes them out with retries. When snapshots arrive faster than the
// mirror accepts them, older pending snapshots are dropped in favor of
// the newest one: the mirror only ever needs the latest collection.
type MirrorWorker struct {
	client      MirrorClient
	retryPolicy RetryPolicy
	queue       chan []models.Booking
	logger      *zerolog.Logger
}

// NewMirrorWorker builds a worker with sane defaults.
func NewMirrorWorker(client MirrorClient, retry RetryPolicy, logger *zerolog.Logger) *MirrorWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &MirrorWorker{
		client:      client,
		retryPolicy: retry,
		queue:       make(chan []models.Booking, models.MirrorQueueSize),
		logger:      logger,
	}
}

// Enqueue schedules a snapshot for mirroring. It never blocks: if the
// queue is full the oldest pending snapshot is discarded.
func (w *MirrorWorker) Enqueue(bookings []models.Booking) {
	snapshot := make([]models.Booking, len(bookings))
	copy(snapshot, bookings)

	for {
		select {
		case w.queue <- snapshot:
			return
		default:
		}
		select {
		case <-w.queue:
			w.logger.Warn().Msg("mirror queue full, dropping stale snapshot")
		default:
		}
	}
}

// Start consumes the queue until ctx is cancelled.
func (w *MirrorWorker) Start(ctx context.Context) {
	w.logger.Info().Int("queue_size", cap(w.queue)).Msg("mirror worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("mirror worker stopped")
			return
		case snapshot := <-w.queue:
			snapshot = w.drainToLatest(snapshot)
			w.process(ctx, snapshot)
		}
	}
}

// drainToLatest collapses the pending queue down to the most recent
// snapshot so the worker never writes an already-superseded state.
func (w *MirrorWorker) drainToLatest(snapshot []models.Booking) []models.Booking {
	for {
		select {
		case newer := <-w.queue:
			snapshot = newer
		default:
			return snapshot
		}
	}
}

func (w *MirrorWorker) process(ctx context.Context, snapshot []models.Booking) {
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		err := w.client.ReplaceBookings(ctx, snapshot)
		if err == nil {
			w.logger.Debug().Int("bookings", len(snapshot)).Msg("mirror snapshot written")
			return
		}
		if ctx.Err() != nil {
			return
		}

		delay := w.retryPolicy.NextDelay(attempt)
		w.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("mirror write failed")

		if attempt == w.retryPolicy.MaxRetries {
			w.logger.Error().
				Int("bookings", len(snapshot)).
				Msg("mirror snapshot dropped after max retries")
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}
