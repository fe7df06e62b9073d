package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/habits/internal/config"
)

const blob = `[{"id":1,"name":"Read","records":{"2024-03-01":true}}]`

func roundTrip(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	data, err := b.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, data, "nothing stored yet")

	require.NoError(t, b.Write(ctx, []byte(`[]`)))
	require.NoError(t, b.Write(ctx, []byte(blob)))

	data, err = b.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, blob, string(data), "the last write wins as a whole value")
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "habits.json")
	b := NewFileBackend(path)
	roundTrip(t, b)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are renamed away")
	require.NoError(t, b.Close())
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.db")
	b, err := OpenSQLite(path, config.DefaultKey)
	require.NoError(t, err)
	defer b.Close()

	roundTrip(t, b)

	ts, err := b.UpdatedAt(context.Background())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)

	t.Run("keys are isolated", func(t *testing.T) {
		other, err := OpenSQLite(path, "other")
		require.NoError(t, err)
		defer other.Close()

		data, err := other.Read(context.Background())
		require.NoError(t, err)
		assert.Nil(t, data)
	})
}

func TestMemoryBackend(t *testing.T) {
	roundTrip(t, NewMemoryBackend(nil))

	seed := []byte(blob)
	m := NewMemoryBackend(seed)
	seed[0] = 'x'
	data, _ := m.Read(context.Background())
	assert.JSONEq(t, blob, string(data), "the seed is copied")
}

func TestStoreOverSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.db")
	b, err := OpenSQLite(path, config.DefaultKey)
	require.NoError(t, err)

	s := New(b)
	require.NoError(t, s.Load(context.Background()))
	h, _ := s.AddHabit("Read")
	s.ToggleRecord(h.ID, "2024-03-01")
	require.NoError(t, s.Close())

	b, err = OpenSQLite(path, config.DefaultKey)
	require.NoError(t, err)
	reopened := New(b)
	require.NoError(t, reopened.Load(context.Background()))
	defer reopened.Close()

	assert.True(t, reopened.IsCompleted(h.ID, "2024-03-01"))
}

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Storage.Path = filepath.Join(dir, "habits.json")
	b, err := OpenBackend(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	cfg.Storage.Backend = "sqlite"
	cfg.Storage.Path = filepath.Join(dir, "habits.db")
	b, err = OpenBackend(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteBackend{}, b)
	require.NoError(t, b.Close())

	cfg.Storage.Backend = "Memory"
	b, err = OpenBackend(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	cfg.Storage.Backend = "etcd"
	_, err = OpenBackend(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestRedisBackend_Integration(t *testing.T) {
	_ = godotenv.Load("../../.env")

	addr := os.Getenv("HABITS_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	b, err := OpenRedis(context.Background(), RedisOptions{
		Addr:     addr,
		Password: os.Getenv("HABITS_REDIS_PASSWORD"),
		DB:       1,
		Key:      "habits-test-" + time.Now().Format("150405.000"),
	})
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer b.Close()
	defer b.rdb.Del(context.Background(), b.key)

	roundTrip(t, b)
}

func TestStoredAt(t *testing.T) {
	ctx := context.Background()

	t.Run("memory has no timestamp", func(t *testing.T) {
		s := New(NewMemoryBackend(nil))
		at, err := s.StoredAt(ctx)
		require.NoError(t, err)
		assert.True(t, at.IsZero())
	})

	t.Run("sqlite reports the last write", func(t *testing.T) {
		b, err := OpenSQLite(filepath.Join(t.TempDir(), "habits.db"), config.DefaultKey)
		require.NoError(t, err)
		s := New(b)
		defer s.Close()
		require.NoError(t, s.Load(ctx))

		at, err := s.StoredAt(ctx)
		require.NoError(t, err)
		assert.True(t, at.IsZero(), "nothing written yet")

		_, ok := s.AddHabit("Read")
		require.True(t, ok)
		at, err = s.StoredAt(ctx)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), at, time.Minute)
	})

	t.Run("file uses the modification time", func(t *testing.T) {
		s := New(NewFileBackend(filepath.Join(t.TempDir(), "habits.json")))
		require.NoError(t, s.Load(ctx))
		_, ok := s.AddHabit("Read")
		require.True(t, ok)

		at, err := s.StoredAt(ctx)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), at, time.Minute)
	})
}
