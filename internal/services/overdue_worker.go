package services

import (
	"context"
	"time"

	"salesboard-be/internal/repository"

	"go.uber.org/zap"
)

// StartOverdueWorker launches a background goroutine that periodically tags
// cards whose due date has passed. The worker stops when ctx is cancelled.
func StartOverdueWorker(ctx context.Context, interval time.Duration, cards repository.CardStore, log *zap.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info("overdue worker started", zap.Duration("interval", interval))

		// Run once at startup, then on every tick
		sweepOverdue(ctx, cards, log)

		for {
			select {
			case <-ctx.Done():
				log.Info("overdue worker stopped")
				return
			case <-ticker.C:
				sweepOverdue(ctx, cards, log)
			}
		}
	}()
}

func sweepOverdue(ctx context.Context, cards repository.CardStore, log *zap.Logger) {
	now := time.Now().UTC()
	overdue, err := cards.ListOverdue(ctx, now)
	if err != nil {
		log.Error("overdue sweep failed", zap.Error(err))
		return
	}

	for _, card := range overdue {
		if err := cards.AddTag(ctx, card.ID, "overdue"); err != nil {
			log.Warn("failed to tag overdue card",
				zap.String("card_id", card.ID), zap.Error(err))
			continue
		}
		log.Info("card marked overdue",
			zap.String("card_id", card.ID), zap.String("title", card.Title))
	}
}
