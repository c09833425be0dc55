package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAbsentKey(t *testing.T) {
	s := New()

	v, ok, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Put(ctx, "k", []byte("v1"), 0))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), v)

	// Put overwrites unconditionally.
	require.NoError(t, s.Put(ctx, "k", []byte("v2"), 0))
	v, _, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := New()

	clock := time.Unix(1710528000, 0)
	s.now = func() time.Time { return clock }

	require.NoError(t, s.Put(ctx, "k", []byte("v"), 10*time.Second))

	clock = clock.Add(10 * time.Second)
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok, "not expired yet at exactly ttl")

	clock = clock.Add(time.Second)
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "expired past ttl")
	assert.Equal(t, 0, s.Len(), "expired entry reclaimed on read")
}

func TestZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	s := New()

	clock := time.Unix(1710528000, 0)
	s.now = func() time.Time { return clock }

	require.NoError(t, s.Put(ctx, "k", []byte("v"), 0))
	clock = clock.Add(1000 * time.Hour)

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
