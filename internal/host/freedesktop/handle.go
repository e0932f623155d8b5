package freedesktop

import (
	"strconv"
	"sync"
)

// Handle is a notification shown through a Client.
type Handle struct {
	client *Client
	id     uint32
	tag    string

	mu       sync.Mutex
	onClick  func()
	onClose  func()
	onAction func(key string)
	closing  bool
	finished bool
	reason   CloseReason
}

// ID returns the server-assigned id as a string.
func (h *Handle) ID() string {
	return strconv.FormatUint(uint64(h.id), 10)
}

// ServerID returns the server-assigned notification id.
func (h *Handle) ServerID() uint32 {
	return h.id
}

// OnClick sets the function called when the notification body is clicked.
func (h *Handle) OnClick(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClick = fn
}

// OnClose sets the function called once the notification has gone away.
// If it already has, fn is called right away.
func (h *Handle) OnClose(fn func()) {
	h.mu.Lock()
	if h.finished {
		h.mu.Unlock()
		if fn != nil {
			fn()
		}
		return
	}
	h.onClose = fn
	h.mu.Unlock()
}

// OnAction sets the function called when one of the notification's
// action buttons is invoked.
func (h *Handle) OnAction(fn func(key string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onAction = fn
}

// Close asks the server to close the notification. Once a request has
// succeeded further calls are no-ops; the close slot fires when the server
// confirms. A failed request can be retried.
func (h *Handle) Close() error {
	h.mu.Lock()
	if h.closing || h.finished {
		h.mu.Unlock()
		return nil
	}
	h.closing = true
	h.mu.Unlock()

	if err := h.client.closeNotification(h.id); err != nil {
		h.mu.Lock()
		h.closing = false
		h.mu.Unlock()
		return err
	}
	return nil
}

// Closed reports whether the notification has gone away, and why.
func (h *Handle) Closed() (CloseReason, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reason, h.finished
}

func (h *Handle) click() {
	h.mu.Lock()
	fn := h.onClick
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (h *Handle) action(key string) {
	h.mu.Lock()
	fn := h.onAction
	h.mu.Unlock()
	if fn != nil {
		fn(key)
	}
}

// finish marks the notification as gone and fires the close slot once.
func (h *Handle) finish(reason CloseReason) {
	h.mu.Lock()
	if h.finished {
		h.mu.Unlock()
		return
	}
	h.finished = true
	h.reason = reason
	fn := h.onClose
	h.mu.Unlock()

	if fn != nil {
		fn()
	}
}
