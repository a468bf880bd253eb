package rescan

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingIndex struct {
	calls atomic.Int32
	err   error
}

func (c *countingIndex) Rebuild(ctx context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestRescan(t *testing.T) {
	index := &countingIndex{}
	purged := 0
	rs, err := NewRescanScheduler(index, "", func() { purged++ })
	require.NoError(t, err)
	defer rs.Close()

	require.NoError(t, rs.Rescan(context.Background()))
	assert.EqualValues(t, 1, index.calls.Load())
	assert.Equal(t, 1, purged)
}

func TestRescan_FailureSkipsCallback(t *testing.T) {
	index := &countingIndex{err: errors.New("bucket unavailable")}
	purged := 0
	rs, err := NewRescanScheduler(index, "*/5 * * * *", func() { purged++ })
	require.NoError(t, err)
	defer rs.Close()

	assert.Error(t, rs.Rescan(context.Background()))
	assert.Equal(t, 0, purged)
}

func TestRescan_InvalidCron(t *testing.T) {
	_, err := NewRescanScheduler(&countingIndex{}, "not a cron", nil)
	assert.Error(t, err)
}
