package freedesktop

import (
	"github.com/godbus/dbus/v5"
)

const (
	signalNotificationClosed = DBusInterface + ".NotificationClosed"
	signalActionInvoked      = DBusInterface + ".ActionInvoked"
)

// processSignals routes notification signals to handles until Close is called.
func (c *Client) processSignals() {
	defer close(c.doneCh)

	for {
		select {
		case sig, ok := <-c.signals:
			if !ok {
				return
			}
			c.dispatch(sig)
		case <-c.stopCh:
			return
		}
	}
}

// dispatch handles a single signal. Signals for notifications this client
// did not create are ignored.
func (c *Client) dispatch(sig *dbus.Signal) {
	if sig == nil || sig.Path != DBusPath {
		return
	}

	switch sig.Name {
	case signalNotificationClosed:
		if len(sig.Body) < 2 {
			c.logger.Warn("malformed NotificationClosed signal", "body_len", len(sig.Body))
			return
		}
		id, ok := sig.Body[0].(uint32)
		if !ok {
			return
		}
		reason, _ := sig.Body[1].(uint32)

		h := c.take(id)
		if h == nil {
			return
		}
		c.logger.Debug("notification closed", "id", id, "reason", CloseReason(reason).String())
		h.finish(CloseReason(reason))

	case signalActionInvoked:
		if len(sig.Body) < 2 {
			c.logger.Warn("malformed ActionInvoked signal", "body_len", len(sig.Body))
			return
		}
		id, ok := sig.Body[0].(uint32)
		if !ok {
			return
		}
		key, _ := sig.Body[1].(string)

		h := c.lookup(id)
		if h == nil {
			return
		}
		c.logger.Debug("notification action invoked", "id", id, "action_key", key)
		if key == DefaultActionKey {
			h.click()
		} else {
			h.action(key)
		}
	}
}
