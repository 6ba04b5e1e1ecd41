package worker

// retry_cron.go
// Background goroutine that periodically puts dead-lettered print and email
// jobs back on their queues. Email jobs wait while the SMTP circuit breaker
// is open so a downed mail server is not hammered.

import (
	"context"
	"time"

	"ebucks/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	replayTickInterval = 10 * time.Minute
	// Jobs that still fail after this many automatic replays wait for an
	// admin to replay them by hand.
	maxAutoReplays = 3
)

// ReplayCronConfig holds all dependencies for the replay goroutine.
type ReplayCronConfig struct {
	RDB *redis.Client
	// SMTP is the mailer's breaker; nil means mail is not configured and the
	// email DLQ is left alone.
	SMTP     *infra.CircuitBreaker
	Interval time.Duration
}

// StartReplayCron launches the replay goroutine. It respects the context for
// graceful shutdown.
func StartReplayCron(ctx context.Context, cfg ReplayCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = replayTickInterval
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("replay_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("replay_cron: shutting down")
				return
			case <-ticker.C:
				replayTick(ctx, cfg)
			}
		}
	}()
}

func replayTick(ctx context.Context, cfg ReplayCronConfig) {
	for _, q := range replayQueues(cfg.SMTP) {
		if _, err := ReplayDLQ(ctx, cfg.RDB, q, maxAutoReplays); err != nil {
			log.Error().Err(err).Str("queue", q).Msg("replay_cron: replay failed")
		}
	}
}

// replayQueues lists the queues worth replaying right now.
func replayQueues(smtp *infra.CircuitBreaker) []string {
	queues := []string{QueuePrint}
	switch {
	case smtp == nil:
	case smtp.State() == infra.CBOpen:
		log.Debug().Msg("replay_cron: smtp breaker open, email jobs stay dead-lettered")
	default:
		queues = append(queues, QueueEmail)
	}
	return queues
}
