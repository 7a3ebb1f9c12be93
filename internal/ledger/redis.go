package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sbenjam1n/rescuegen/internal/world"
)

// Redis keeps the seen set in a Redis set and the entries in a hash, keyed
// by namespace.
type Redis struct {
	client    *redis.Client
	seenKey   string
	entryKey  string
	ownClient bool
}

// OpenRedis connects to redisURL and returns a Redis ledger.
func OpenRedis(ctx context.Context, redisURL, namespace string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w\nSet RESCUEGEN_REDIS_URL environment variable", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	r := NewRedis(client, namespace)
	r.ownClient = true
	return r, nil
}

// NewRedis wraps an existing client. Close leaves the client open.
func NewRedis(client *redis.Client, namespace string) *Redis {
	return &Redis{
		client:   client,
		seenKey:  "rescuegen:" + namespace + ":seen",
		entryKey: "rescuegen:" + namespace + ":entries",
	}
}

func (r *Redis) Seen(ctx context.Context, fp world.Fingerprint) (bool, error) {
	ok, err := r.client.SIsMember(ctx, r.seenKey, fp.String()).Result()
	if err != nil {
		return false, fmt.Errorf("check fingerprint: %w", err)
	}
	return ok, nil
}

func (r *Redis) Record(ctx context.Context, e Entry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	fp := e.Fingerprint.String()
	var added *redis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		added = pipe.SAdd(ctx, r.seenKey, fp)
		pipe.HSetNX(ctx, r.entryKey, fp, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record entry: %w", err)
	}
	if added.Val() == 0 {
		return ErrDuplicate
	}
	return nil
}

func (r *Redis) Count(ctx context.Context) (int, error) {
	n, err := r.client.SCard(ctx, r.seenKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count fingerprints: %w", err)
	}
	return int(n), nil
}

// Entry loads the recorded entry for fp.
func (r *Redis) Entry(ctx context.Context, fp world.Fingerprint) (Entry, error) {
	var e Entry
	raw, err := r.client.HGet(ctx, r.entryKey, fp.String()).Bytes()
	if err != nil {
		return e, fmt.Errorf("load entry %s: %w", fp, err)
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return e, fmt.Errorf("unmarshal entry %s: %w", fp, err)
	}
	return e, nil
}

func (r *Redis) Close() error {
	if r.ownClient {
		return r.client.Close()
	}
	return nil
}
