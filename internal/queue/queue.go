package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/sbenjam1n/rescuegen/internal/ledger"
)

// StreamAccepted is the default Redis stream accepted problems are announced on.
const StreamAccepted = "rescuegen_accepted"

// AcceptedMessage is the payload pushed for each accepted problem.
type AcceptedMessage struct {
	RunID       string `json:"run_id"`
	Fingerprint string `json:"fingerprint"`
	Split       string `json:"split"`
	Index       int    `json:"index"`
	Path        string `json:"path"`
}

// Queue announces accepted problems on a Redis stream so downstream
// trainers can pick them up while a run is still going.
type Queue struct {
	client *redis.Client
	stream string
}

// New creates a Queue from a Redis client. An empty stream uses StreamAccepted.
func New(client *redis.Client, stream string) *Queue {
	if stream == "" {
		stream = StreamAccepted
	}
	return &Queue{client: client, stream: stream}
}

// ConnectRedis creates a Redis client from a URL.
func ConnectRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Publish adds an accepted entry to the stream.
func (q *Queue) Publish(ctx context.Context, e ledger.Entry) error {
	msg := AcceptedMessage{
		RunID:       e.RunID,
		Fingerprint: e.Fingerprint.String(),
		Split:       string(e.Split),
		Index:       e.Index,
		Path:        e.Path,
	}
	msgJSON, _ := json.Marshal(msg)
	err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]any{
			"run_id":      msg.RunID,
			"fingerprint": msg.Fingerprint,
			"split":       msg.Split,
			"index":       msg.Index,
			"path":        msg.Path,
			"payload":     string(msgJSON),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("push accepted: %w", err)
	}
	return nil
}

// Range reads up to count messages from the start of the stream.
func (q *Queue) Range(ctx context.Context, count int64) ([]AcceptedMessage, error) {
	msgs, err := q.client.XRangeN(ctx, q.stream, "-", "+", count).Result()
	if err != nil {
		return nil, fmt.Errorf("read accepted: %w", err)
	}
	out := make([]AcceptedMessage, 0, len(msgs))
	for _, m := range msgs {
		idx, _ := strconv.Atoi(getString(m.Values, "index"))
		out = append(out, AcceptedMessage{
			RunID:       getString(m.Values, "run_id"),
			Fingerprint: getString(m.Values, "fingerprint"),
			Split:       getString(m.Values, "split"),
			Index:       idx,
			Path:        getString(m.Values, "path"),
		})
	}
	return out, nil
}

// Len returns the number of messages in the stream.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.XLen(ctx, q.stream).Result()
	if err != nil {
		return 0, fmt.Errorf("stream length: %w", err)
	}
	return n, nil
}

func getString(values map[string]any, key string) string {
	if v, ok := values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
