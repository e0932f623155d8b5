package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notifier/internal/host"
)

func TestResult_ResolvesOnce(t *testing.T) {
	r := newResult()
	first := &fakeHandle{id: "first"}

	r.resolve(first, nil)
	r.resolve(&fakeHandle{id: "second"}, errors.New("late"))

	h, err := r.Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, h)
}

func TestResult_WaitHonoursContext(t *testing.T) {
	r := newResult()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	h, err := r.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, h)
}

func TestResult_Subscribe(t *testing.T) {
	r := newResult()
	want := &fakeHandle{id: "n1"}

	var wg sync.WaitGroup
	got := make(chan host.Handle, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		r.Subscribe(func(h host.Handle, err error) {
			defer wg.Done()
			assert.NoError(t, err)
			got <- h
		})
	}

	r.resolve(want, nil)
	wg.Wait()
	close(got)

	for h := range got {
		assert.Same(t, want, h)
	}
}

func TestFailedResult(t *testing.T) {
	r := failedResult(ErrNotSupported)

	select {
	case <-r.Done():
	default:
		t.Fatal("failed result should already be resolved")
	}

	_, err := r.Wait(context.Background())
	assert.ErrorIs(t, err, ErrNotSupported)
}
