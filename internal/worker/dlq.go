package worker

// dlq.go: Dead Letter Queue
// Print and email jobs that fail every attempt land here, one Redis list per
// source queue: dlq:{source_queue}. Replay pushes them back once the
// printer or SMTP server is reachable again.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry wraps a failed job with metadata for debugging.
type DLQEntry struct {
	SourceQueue string          `json:"source_queue"`
	JobType     string          `json:"job_type"`
	Payload     json.RawMessage `json:"payload"`
	Reason      string          `json:"reason"`
	FailedAt    string          `json:"failed_at"` // ISO 8601
	Attempts    int             `json:"attempts"`
	Replays     int             `json:"replays"`
}

// SendToDLQ pushes a failed job to the dead letter queue.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string, attempts int) {
	entry := DLQEntry{
		SourceQueue: queue,
		JobType:     job.Type,
		Payload:     job.Payload,
		Reason:      reason,
		FailedAt:    time.Now().UTC().Format(time.RFC3339),
		Attempts:    attempts,
		Replays:     job.Replays,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}

	dlqKey := DLQPrefix + queue
	if err := rdb.LPush(ctx, dlqKey, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: failed to push")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", attempts).
		Int("replays", job.Replays).
		Msg("dlq: job dead-lettered")
}

// DLQLength returns the number of entries in a DLQ for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// ReplayDLQ moves dead-lettered jobs of queue back onto it, oldest first,
// and returns how many were moved. With maxReplays > 0, entries already
// replayed that often stay in the DLQ. Entries that no longer decode are
// dropped.
func ReplayDLQ(ctx context.Context, rdb *redis.Client, queue string, maxReplays int) (int, error) {
	dlqKey := DLQPrefix + queue
	n, err := rdb.LLen(ctx, dlqKey).Result()
	if err != nil {
		return 0, err
	}

	// Visit each current entry once; kept entries go back to the head.
	moved := 0
	for i := int64(0); i < n; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return moved, err
		}
		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: dropping undecodable entry")
			continue
		}
		if maxReplays > 0 && entry.Replays >= maxReplays {
			if err := rdb.LPush(ctx, dlqKey, raw).Err(); err != nil {
				return moved, err
			}
			continue
		}
		job, err := json.Marshal(Job{Type: entry.JobType, Payload: entry.Payload, Replays: entry.Replays + 1})
		if err != nil {
			return moved, err
		}
		if err := rdb.LPush(ctx, queue, job).Err(); err != nil {
			rdb.RPush(ctx, dlqKey, raw)
			return moved, err
		}
		moved++
	}
	if moved > 0 {
		log.Info().Str("queue", queue).Int("replayed", moved).Msg("dlq: jobs replayed")
	}
	return moved, nil
}
