package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"parking-booking/internal/pkg/clock"
	"parking-booking/internal/pkg/config"
	"parking-booking/internal/usecase/shared"
)

const (
	retryBase = 5 * time.Second
	retryCap  = 5 * time.Minute

	// Expired idempotency keys are swept every this many polls.
	sweepEveryTicks = 30
)

type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
	Close() error
}

// OutboxRelay drains notification_jobs rows written by the booking
// transactions and hands them to the message broker.
type OutboxRelay struct {
	uow       shared.UnitOfWork
	publisher MessagePublisher
	cfg       config.OutboxConfig
	clock     clock.Clock
	logger    *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOutboxRelay(uow shared.UnitOfWork, publisher MessagePublisher, cfg config.OutboxConfig, clk clock.Clock, logger *slog.Logger) *OutboxRelay {
	return &OutboxRelay{
		uow:       uow,
		publisher: publisher,
		cfg:       cfg,
		clock:     clk,
		logger:    logger,
	}
}

// RunOnce publishes one claimed batch and returns how many jobs were sent.
// A failed job is requeued with backoff until MaxAttempts, then marked failed.
func (r *OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	sent := 0
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		jobs, err := tx.Notifications().ClaimPending(ctx, tx.DB(), r.cfg.BatchSize)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			if perr := r.publisher.Publish(ctx, job.Kind, job.Payload); perr != nil {
				retryAt := r.nextAttempt(job.Attempts)
				if retryAt == nil {
					r.logger.Error("outbox job failed permanently",
						"job_id", job.ID.String(),
						"kind", job.Kind,
						"attempts", job.Attempts+1,
						"error", perr.Error())
				}
				if err := tx.Notifications().MarkFailed(ctx, tx.DB(), job.ID, perr.Error(), retryAt); err != nil {
					return err
				}
				continue
			}
			if err := tx.Notifications().MarkSent(ctx, tx.DB(), job.ID); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	return sent, err
}

func (r *OutboxRelay) nextAttempt(attempts int32) *time.Time {
	if attempts+1 >= r.cfg.MaxAttempts {
		return nil
	}
	wait := retryBase << attempts
	if wait > retryCap || wait <= 0 {
		wait = retryCap
	}
	at := r.clock.Now().Add(wait)
	return &at
}

func (r *OutboxRelay) SweepIdempotencyKeys(ctx context.Context) (int64, error) {
	var deleted int64
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Idempotency().DeleteExpired(ctx, tx.DB())
		deleted = n
		return err
	})
	return deleted, err
}

func (r *OutboxRelay) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go r.loop(ctx)
	r.logger.Info("outbox relay started", "poll_interval", r.cfg.PollInterval.String())
	return nil
}

func (r *OutboxRelay) Stop(_ context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	return r.publisher.Close()
}

func (r *OutboxRelay) loop(ctx context.Context) {
	defer r.wg.Done()

	interval := r.cfg.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for tick := 1; ; tick++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if sent, err := r.RunOnce(ctx); err != nil {
			if ctx.Err() == nil {
				r.logger.Warn("outbox relay batch failed", "error", err.Error())
			}
		} else if sent > 0 {
			r.logger.Debug("outbox relay batch sent", "count", sent)
		}

		if tick%sweepEveryTicks == 0 {
			if n, err := r.SweepIdempotencyKeys(ctx); err != nil {
				r.logger.Warn("idempotency sweep failed", "error", err.Error())
			} else if n > 0 {
				r.logger.Info("expired idempotency keys removed", "count", n)
			}
		}
	}
}
