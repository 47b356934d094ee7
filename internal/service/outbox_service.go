package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Alumni_Network/internal/config"
	"Alumni_Network/internal/pkg"
	"Alumni_Network/internal/repository/store"
)

// OutboxRelayer drains the outbox table into an EventSender.
type OutboxRelayer struct {
	repo      *store.OutboxRepository
	sender    pkg.EventSender
	log       *zap.Logger
	batchSize int
	maxRetry  int
	interval  time.Duration
}

func NewOutboxRelayer(repo *store.OutboxRepository, sender pkg.EventSender, log *zap.Logger, cfg config.OutboxConfig) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		sender:    sender,
		log:       log,
		batchSize: cfg.BatchSize,
		maxRetry:  cfg.MaxRetry,
		interval:  cfg.Interval,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce sends one batch and returns the number delivered.
func (r *OutboxRelayer) DrainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize, r.maxRetry)
	if err != nil {
		if ctx.Err() == nil {
			r.log.Warn("outbox query", zap.Error(err))
		}
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err := r.sender.Send(ctx, pkg.MakeKeyFromID(ob.AggregateID), []byte(ob.Payload)); err != nil {
			r.log.Warn("outbox send",
				zap.String("event_id", ob.EventID),
				zap.String("event_type", ob.EventType),
				zap.Int("retry", ob.Retry+1),
				zap.Error(err))
			if err := r.repo.RetryUpdate(ctx, ob.ID); err != nil {
				r.log.Error("outbox retry update", zap.Uint64("id", ob.ID), zap.Error(err))
			}
			continue
		}
		if err := r.repo.SuccessUpdate(ctx, ob.ID); err != nil {
			r.log.Error("outbox success update", zap.Uint64("id", ob.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}
