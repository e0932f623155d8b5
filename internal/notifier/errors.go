package notifier

import "errors"

// ErrNotSupported is returned when no host notification capability is available.
var ErrNotSupported = errors.New("notifications are not supported on this system")
