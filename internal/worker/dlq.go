package worker

// Jobs that exhaust their retries land in a per-queue dead letter list
// (dlq:{queue}) where an operator can inspect and replay them with redis-cli.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const dlqPrefix = "dlq:"

// DeadLetter is the stored form of a failed job.
type DeadLetter struct {
	Queue    string          `json:"queue"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Error    string          `json:"error"`
	Attempts int             `json:"attempts"`
	FailedAt time.Time       `json:"failed_at"`
}

// SendToDLQ moves a failed job to the dead letter list for its queue.
// Best effort: a Redis failure here is logged and the job is lost.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := DeadLetter{
		Queue:    queue,
		Type:     jobType,
		Payload:  payload,
		Error:    reason,
		Attempts: attempts,
		FailedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal failed")
		return
	}
	if err := rdb.LPush(ctx, dlqPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: push failed")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("type", jobType).
		Str("error", reason).
		Int("attempts", attempts).
		Msg("dlq: job parked after exhausting retries")
}
