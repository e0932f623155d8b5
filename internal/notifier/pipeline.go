package notifier

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/notifier/internal/host"
)

// state is a step of a single Show call.
type state int

const (
	stateChecking state = iota
	stateRequesting
	stateCreating
	stateDenied
	stateFailed
	stateDone
)

func (s state) String() string {
	switch s {
	case stateChecking:
		return "checking"
	case stateRequesting:
		return "requesting"
	case stateCreating:
		return "creating"
	case stateDenied:
		return "denied"
	case stateFailed:
		return "failed"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// pipeline runs the permission negotiation and creation for one notification.
type pipeline struct {
	n         *Notifier
	title     string
	opts      Options
	callbacks Callbacks
	logger    *slog.Logger
	result    *Result

	handle host.Handle
	err    error
}

func newPipeline(n *Notifier, title string, opts Options, cbs Callbacks) *pipeline {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)
	return &pipeline{
		n:         n,
		title:     title,
		opts:      opts,
		callbacks: cbs,
		logger:    n.logger.With("pipeline", id.String()),
		result:    newResult(),
	}
}

// run drives the state machine to a terminal state and resolves the result.
func (p *pipeline) run(ctx context.Context) {
	st := stateChecking
	for st != stateDone && st != stateFailed {
		next := p.step(ctx, st)
		p.logger.Debug("notification state", "from", st, "to", next)
		st = next
	}

	if st == stateFailed {
		p.result.resolve(nil, p.err)
		return
	}
	p.result.resolve(p.handle, nil)
}

func (p *pipeline) step(ctx context.Context, st state) state {
	switch st {
	case stateChecking:
		perm, err := p.n.capability.Permission(ctx)
		if err != nil {
			return p.fail(fmt.Errorf("failed to query notification permission: %w", err))
		}
		switch perm {
		case host.PermissionGranted:
			return stateCreating
		case host.PermissionDenied:
			return stateDenied
		default:
			return stateRequesting
		}

	case stateRequesting:
		perm, err := p.n.capability.RequestPermission(ctx)
		if err != nil {
			return p.fail(fmt.Errorf("failed to request notification permission: %w", err))
		}
		if perm == host.PermissionGranted {
			return stateCreating
		}
		return stateDenied

	case stateDenied:
		p.logger.Info("notification permission denied", "title", p.title)
		if p.callbacks.OnPermissionDenied != nil {
			p.callbacks.OnPermissionDenied()
		}
		return stateDone

	case stateCreating:
		if p.opts.Delay > 0 {
			select {
			case <-p.n.clock.After(p.opts.Delay):
			case <-ctx.Done():
				return p.fail(ctx.Err())
			}
		}
		p.handle = p.create(ctx)
		return stateDone
	}

	return p.fail(fmt.Errorf("unexpected notification state %s", st))
}

func (p *pipeline) fail(err error) state {
	p.logger.Error("failed to handle notification", "title", p.title, "error", err)
	p.err = err
	return stateFailed
}

// create displays the notification and wires its callbacks.
// Failures are logged and yield a nil handle.
func (p *pipeline) create(ctx context.Context) (h host.Handle) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("failed to show notification", "title", p.title, "panic", r)
			if h != nil {
				p.n.untrack(h)
			}
			h = nil
		}
	}()

	h, err := p.n.capability.Create(ctx, p.title, p.opts.Options)
	if err != nil {
		p.logger.Error("failed to show notification", "title", p.title, "error", err)
		return nil
	}
	if h == nil {
		p.logger.Error("failed to show notification", "title", p.title, "error", "host returned no handle")
		return nil
	}
	p.n.track(h)

	if onClick := p.callbacks.OnClick; onClick != nil {
		h.OnClick(func() {
			onClick(h)
			if err := p.n.focuser.Focus(context.Background()); err != nil {
				p.logger.Debug("failed to focus application", "error", err)
			}
		})
	}

	if onAction := p.callbacks.OnAction; onAction != nil {
		if ah, ok := h.(host.ActionHandle); ok {
			ah.OnAction(func(key string) { onAction(h, key) })
		}
	}

	if onClose := p.callbacks.OnClose; onClose != nil {
		h.OnClose(func() {
			onClose(h)
			p.n.untrack(h)
		})
	}

	if p.opts.AutoDismiss > 0 {
		p.n.clock.AfterFunc(p.opts.AutoDismiss, func() {
			if err := h.Close(); err != nil {
				p.logger.Warn("failed to auto-dismiss notification", "id", h.ID(), "error", err)
			}
			p.n.untrack(h)
		})
	}

	p.logger.Debug("notification shown", "id", h.ID(), "title", p.title, "auto_dismiss", p.opts.AutoDismiss)
	return h
}
