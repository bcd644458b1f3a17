package worker

import (
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsAllTasks(t *testing.T) {
	pool := NewWorkerPool(3, zerolog.Nop())
	pool.Start()

	var done int64
	for i := 0; i < 20; i++ {
		require.True(t, pool.Submit(func() { atomic.AddInt64(&done, 1) }))
	}
	pool.Stop()

	assert.Equal(t, int64(20), atomic.LoadInt64(&done))
	assert.Equal(t, 0, pool.BusyWorkers())
	assert.Equal(t, 0, pool.QueueLength())
}

func TestWorkerPoolSurvivesPanic(t *testing.T) {
	pool := NewWorkerPool(1, zerolog.Nop())
	pool.Start()

	var ran int64
	pool.Submit(func() { panic("boom") })
	pool.Submit(func() { atomic.AddInt64(&ran, 1) })
	pool.Stop()
	pool.Stop()

	assert.Equal(t, int64(1), atomic.LoadInt64(&ran))
}

func TestNewWorkerPoolClampsSize(t *testing.T) {
	pool := NewWorkerPool(0, zerolog.Nop())
	assert.Equal(t, 1, pool.maxWorkers)
}
