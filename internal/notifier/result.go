package notifier

import (
	"context"
	"sync"

	"github.com/jmylchreest/notifier/internal/host"
)

// Result is the outcome of a Show call. It resolves exactly once, either
// with a handle (nil when nothing was shown) or with an error.
type Result struct {
	once   sync.Once
	done   chan struct{}
	handle host.Handle
	err    error
}

func newResult() *Result {
	return &Result{done: make(chan struct{})}
}

// failedResult returns a Result that has already failed with err.
func failedResult(err error) *Result {
	r := newResult()
	r.resolve(nil, err)
	return r
}

// resolve settles the result. Only the first call has any effect.
func (r *Result) resolve(h host.Handle, err error) {
	r.once.Do(func() {
		r.handle = h
		r.err = err
		close(r.done)
	})
}

// Done is closed once the result has resolved.
func (r *Result) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the result resolves or ctx is done.
// A nil handle with a nil error means no notification was shown
// (permission denied or creation failed).
func (r *Result) Wait(ctx context.Context) (host.Handle, error) {
	select {
	case <-r.done:
		return r.handle, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Subscribe calls fn once with the outcome, on its own goroutine.
func (r *Result) Subscribe(fn func(h host.Handle, err error)) {
	go func() {
		<-r.done
		fn(r.handle, r.err)
	}()
}
