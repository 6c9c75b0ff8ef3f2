// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bookmeta/pkg/types"
)

func testStore(t *testing.T, ttl time.Duration) (*Store, *time.Time) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache", "pages.db")
	s, err := Open(types.CacheConfig{Path: path, TTL: ttl})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestOpenCreatesDBFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pages.db")
	s, err := Open(types.CacheConfig{Path: path})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, defaultTTL, s.ttl)
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open(types.CacheConfig{})
	assert.Error(t, err)
}

func TestPutGet(t *testing.T) {
	s, _ := testStore(t, time.Hour)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "https://example.com/a", []byte("first")))
	require.NoError(t, s.Put(ctx, "https://example.com/a", []byte("second")))

	body, ok, err := s.Get(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", string(body))
}

func TestGetHonoursTTL(t *testing.T) {
	s, now := testStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "u", []byte("body")))

	*now = now.Add(59 * time.Minute)
	_, ok, err := s.Get(ctx, "u")
	require.NoError(t, err)
	assert.True(t, ok)

	*now = now.Add(2 * time.Minute)
	_, ok, err = s.Get(ctx, "u")
	require.NoError(t, err)
	assert.False(t, ok, "entry older than TTL must be a miss")
}

func TestPrune(t *testing.T) {
	s, now := testStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "old", []byte("x")))
	*now = now.Add(2 * time.Hour)
	require.NoError(t, s.Put(ctx, "new", []byte("y")))

	n, err := s.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok, err := s.Get(ctx, "new")
	require.NoError(t, err)
	assert.True(t, ok)
}
