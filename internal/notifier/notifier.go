package notifier

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/jmylchreest/notifier/internal/host"
)

// Notifier shows notifications through a host capability and keeps track
// of the ones that are still on screen.
type Notifier struct {
	capability host.Capability
	focuser    host.Focuser
	clock      clockwork.Clock
	logger     *slog.Logger

	mu        sync.Mutex
	defaults  Options
	callbacks Callbacks
	active    []host.Handle
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithDefaults sets the options applied to every notification.
func WithDefaults(opts Options) Option {
	return func(n *Notifier) { n.defaults = opts }
}

// WithCallbacks sets the callbacks applied to every notification.
func WithCallbacks(cbs Callbacks) Option {
	return func(n *Notifier) { n.callbacks = cbs }
}

// WithFocuser sets how the application is brought to the front on click.
func WithFocuser(f host.Focuser) Option {
	return func(n *Notifier) {
		if f != nil {
			n.focuser = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithClock sets the clock used for delays and auto-dismiss timers.
func WithClock(clock clockwork.Clock) Option {
	return func(n *Notifier) {
		if clock != nil {
			n.clock = clock
		}
	}
}

// New creates a Notifier on top of capability.
// A nil capability is allowed: every Show then fails with ErrNotSupported.
func New(capability host.Capability, opts ...Option) *Notifier {
	n := &Notifier{
		capability: capability,
		focuser:    host.NopFocuser{},
		clock:      clockwork.NewRealClock(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}

	if capability == nil {
		n.logger.Warn(ErrNotSupported.Error())
	}
	return n
}

// Supported reports whether a host capability is available.
func (n *Notifier) Supported() bool {
	return n.capability != nil
}

// SetDefaults replaces the default options. Notifications already in
// flight keep the options they were started with.
func (n *Notifier) SetDefaults(opts Options) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.defaults = opts
}

// Defaults returns the current default options.
func (n *Notifier) Defaults() Options {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.defaults
}

// Show displays a notification, asking for permission first if needed.
// The work starts immediately; the returned Result reports the handle,
// nil when nothing was shown, or an error.
func (n *Notifier) Show(title string, opts Options, cbs Callbacks) *Result {
	if n.capability == nil {
		n.logger.Warn(ErrNotSupported.Error())
		return failedResult(ErrNotSupported)
	}

	n.mu.Lock()
	defaults, defaultCallbacks := n.defaults, n.callbacks
	n.mu.Unlock()

	merged, err := mergeOptions(defaults, opts)
	if err != nil {
		n.logger.Error("failed to prepare notification", "title", title, "error", err)
		return failedResult(err)
	}

	p := newPipeline(n, title, merged, mergeCallbacks(defaultCallbacks, cbs))
	go p.run(context.Background())
	return p.result
}

// DismissAll closes every tracked notification and forgets them.
// Pending permission requests, delays and auto-dismiss timers are left alone.
func (n *Notifier) DismissAll() {
	n.mu.Lock()
	handles := n.active
	n.active = nil
	n.mu.Unlock()

	for _, h := range handles {
		if err := h.Close(); err != nil {
			n.logger.Warn("failed to close notification", "id", h.ID(), "error", err)
		}
	}
	if len(handles) > 0 {
		n.logger.Debug("dismissed all notifications", "count", len(handles))
	}
}

// Active returns the notifications currently tracked, oldest first.
func (n *Notifier) Active() []host.Handle {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.active)
}

// track adds h to the active set unless it is already there.
func (n *Notifier) track(h host.Handle) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !slices.Contains(n.active, h) {
		n.active = append(n.active, h)
	}
}

// untrack removes h from the active set. Removing an unknown handle is a no-op.
func (n *Notifier) untrack(h host.Handle) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.active = slices.DeleteFunc(n.active, func(a host.Handle) bool { return a == h })
}
