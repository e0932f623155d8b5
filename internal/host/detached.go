package host

import "sync"

var _ Handle = (*DetachedHandle)(nil)

// DetachedHandle is a Handle for notifications the platform gives no
// further control over once shown. Clicks are never reported; Close only
// fires the close slot, once.
type DetachedHandle struct {
	id string

	mu      sync.Mutex
	onClose func()
	closed  bool
}

// NewDetachedHandle returns a handle identified by id.
func NewDetachedHandle(id string) *DetachedHandle {
	return &DetachedHandle{id: id}
}

func (h *DetachedHandle) ID() string { return h.id }

// OnClick is accepted but never fired.
func (h *DetachedHandle) OnClick(func()) {}

func (h *DetachedHandle) OnClose(fn func()) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		if fn != nil {
			fn()
		}
		return
	}
	h.onClose = fn
	h.mu.Unlock()
}

func (h *DetachedHandle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	fn := h.onClose
	h.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}
