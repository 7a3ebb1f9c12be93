package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbenjam1n/rescuegen/internal/world"
)

func fingerprint(i int) world.Fingerprint {
	return world.Identify([]world.Fact{world.Clear(world.Location{Row: i})}, world.Goal{})
}

func entry(i int, split Split) Entry {
	return Entry{
		Fingerprint: fingerprint(i),
		Split:       split,
		Index:       i,
		Path:        fmt.Sprintf("corpus/problem%d.pddl", i),
		RunID:       "run-1",
		AcceptedAt:  time.Date(2026, 1, 2, 3, 4, 5, i, time.UTC),
	}
}

// exerciseLedger runs the behaviour every backend must share.
func exerciseLedger(t *testing.T, l Ledger) {
	t.Helper()
	ctx := context.Background()

	n, err := l.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	seen, err := l.Seen(ctx, fingerprint(0))
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, l.Record(ctx, entry(0, Train)))
	require.NoError(t, l.Record(ctx, entry(1, Test)))

	seen, err = l.Seen(ctx, fingerprint(0))
	require.NoError(t, err)
	assert.True(t, seen)

	err = l.Record(ctx, entry(0, Test))
	assert.ErrorIs(t, err, ErrDuplicate)

	n, err = l.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMemoryLedger(t *testing.T) {
	m := NewMemory()
	exerciseLedger(t, m)
	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Train, entries[0].Split)
	assert.Equal(t, Test, entries[1].Split)
	require.NoError(t, m.Close())
}

func TestSQLiteLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger", "rescuegen.db")
	s, err := OpenSQLite(context.Background(), path, "corpus-a")
	require.NoError(t, err)
	exerciseLedger(t, s)

	entries, err := s.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entry(0, Train), entries[0])
	require.NoError(t, s.Close())

	// reopening keeps the namespace's entries and isolates other namespaces
	again, err := OpenSQLite(context.Background(), path, "corpus-a")
	require.NoError(t, err)
	defer again.Close()
	n, err := again.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	other, err := OpenSQLite(context.Background(), path, "corpus-b")
	require.NoError(t, err)
	defer other.Close()
	seen, err := other.Seen(context.Background(), fingerprint(0))
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestRedisLedger(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := NewRedis(client, "corpus-a")
	exerciseLedger(t, r)

	e, err := r.Entry(context.Background(), fingerprint(1))
	require.NoError(t, err)
	assert.Equal(t, entry(1, Test), e)
	assert.True(t, mr.Exists("rescuegen:corpus-a:seen"))
	require.NoError(t, r.Close())
}

func TestRedisRecordIsAtomic(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()
	r := NewRedis(client, "corpus-b")

	first := entry(4, Train)
	require.NoError(t, r.Record(ctx, first))

	again := entry(4, Test)
	again.RunID = "run-2"
	require.ErrorIs(t, r.Record(ctx, again), ErrDuplicate)

	e, err := r.Entry(ctx, first.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, first, e)

	mr.SetError("ERR server unavailable")
	assert.Error(t, r.Record(ctx, entry(5, Train)))
	mr.SetError("")

	seen, err := r.Seen(ctx, fingerprint(5))
	require.NoError(t, err)
	assert.False(t, seen)
	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpenRedisFromURL(t *testing.T) {
	mr := miniredis.RunT(t)
	r, err := OpenRedis(context.Background(), fmt.Sprintf("redis://%s", mr.Addr()), "ns")
	require.NoError(t, err)
	require.NoError(t, r.Record(context.Background(), entry(3, Train)))
	require.NoError(t, r.Close())

	_, err = OpenRedis(context.Background(), "invalid://url", "ns")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis URL")
}

func TestPostgresLedger(t *testing.T) {
	url := os.Getenv("RESCUEGEN_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("RESCUEGEN_TEST_DATABASE_URL not set")
	}
	ns := fmt.Sprintf("test-%d", time.Now().UnixNano())
	p, err := OpenPostgres(context.Background(), url, ns)
	require.NoError(t, err)
	defer p.Close()
	exerciseLedger(t, p)
}

func TestOpen(t *testing.T) {
	l, err := Open(context.Background(), Options{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, l)

	l, err = Open(context.Background(), Options{
		Driver:     DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "x.db"),
	})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, l)
	require.NoError(t, l.Close())

	_, err = Open(context.Background(), Options{Driver: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
