package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, 0))

	var got map[string]int
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, 1, got["a"])

	require.NoError(t, c.Delete(ctx, "k"))
	assert.True(t, errors.Is(c.Get(ctx, "k", &got), ErrCacheMiss))
}

func TestMemoryCache_SetNXAndExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	ok, err := c.SetNX(ctx, "token", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "token", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(time.Minute)
	ok, err = c.SetNX(ctx, "token", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	var v int
	require.NoError(t, c.Get(ctx, "token", &v))
	assert.Equal(t, 3, v)
}

func TestMemoryCache_WritesEvictExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }
	c.lastSweep = now

	for i := 0; i < 1000; i++ {
		ok, err := c.SetNX(ctx, fmt.Sprintf("upload_token:%d", i), i, time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.NoError(t, c.Set(ctx, "video:keep", "v", 0))
	assert.Len(t, c.entries, 1001)

	now = now.Add(memorySweepInterval)
	ok, err := c.SetNX(ctx, "upload_token:new", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Len(t, c.entries, 2)
	assert.Contains(t, c.entries, "video:keep")
	assert.Contains(t, c.entries, "upload_token:new")
}

func TestLoggerClient_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerClient(&buf, "gau-video-service")

	logger.ErrorWithContextf(context.Background(), errors.New("boom"), "[Video] Failed to create video: %s", "x")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "[Video] Failed to create video: x", line["msg"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "gau-video-service", line["service"])
}
