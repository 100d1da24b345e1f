package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDispatchesByKind(t *testing.T) {
	var handled int64
	q := NewQueue("renders", Config{Workers: 1})
	q.Register(KindOfficialReport, func(ctx context.Context, job Job) error {
		assert.Equal(t, "job-1", job.ID)
		assert.Equal(t, "small_42_ortools", job.ResultID)
		atomic.AddInt64(&handled, 1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "job-1", Kind: KindOfficialReport, ResultID: "small_42_ortools", Format: "csv"}))
	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&handled) == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestQueueRejectsUnknownKind(t *testing.T) {
	q := NewQueue("renders", Config{Workers: 1})
	q.Register(KindOfficialReport, func(ctx context.Context, job Job) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop()

	err := q.Enqueue(Job{ID: "job-1", Kind: KindInstanceExport})
	assert.Error(t, err)
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	q := NewQueue("renders", Config{Workers: 1})
	q.Register(KindOfficialReport, func(ctx context.Context, job Job) error { return nil })

	err := q.Enqueue(Job{ID: "job-1", Kind: KindOfficialReport})
	assert.Error(t, err)
}

func TestQueueFullDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	q := NewQueue("renders", Config{Workers: 1, BufferSize: 1})
	q.Register(KindOfficialReport, func(ctx context.Context, job Job) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer func() {
		close(release)
		q.Stop()
	}()

	// Saturate the single worker plus the one buffer slot, then expect
	// a fast rejection instead of a blocked enqueue.
	require.NoError(t, q.Enqueue(Job{ID: "busy", Kind: KindOfficialReport}))
	require.Eventually(t, func() bool {
		return q.Enqueue(Job{ID: "buffered", Kind: KindOfficialReport}) == nil
	}, time.Second, 5*time.Millisecond)

	err := q.Enqueue(Job{ID: "overflow", Kind: KindOfficialReport})
	assert.True(t, errors.Is(err, ErrQueueFull))
}

func TestQueueRetriesWithBackoff(t *testing.T) {
	var attempts int64
	q := NewQueue("renders", Config{Workers: 1, MaxRetries: 2, BaseDelay: time.Millisecond})
	q.Register(KindOfficialReport, func(ctx context.Context, job Job) error {
		if atomic.AddInt64(&attempts, 1) < 3 {
			return errors.New("result not ready")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "flaky", Kind: KindOfficialReport}))
	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&attempts) == 3
	}, 2*time.Second, 5*time.Millisecond)
}
