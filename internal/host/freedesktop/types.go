package freedesktop

const (
	// DBusInterface is the notification interface name.
	DBusInterface = "org.freedesktop.Notifications"
	// DBusPath is the notification object path.
	DBusPath = "/org/freedesktop/Notifications"
	// DBusBusName is the bus name owned by the notification daemon.
	DBusBusName = "org.freedesktop.Notifications"

	// ApplicationInterface is the interface used to activate an application.
	ApplicationInterface = "org.freedesktop.Application"

	// DefaultActionKey is the action reported when the notification body is clicked.
	DefaultActionKey = "default"
)

// Reply codes of org.freedesktop.DBus.StartServiceByName.
const (
	startReplySuccess        uint32 = 1
	startReplyAlreadyRunning uint32 = 2
)

// CloseReason represents the reason for closing a notification.
// These values are defined by the freedesktop.org notification specification.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the notification expired (timeout reached).
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user dismissed the notification.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates the notification was closed via CloseNotification.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined is reserved/undefined per the spec.
	CloseReasonUndefined CloseReason = 4
	// CloseReasonReplaced is used locally when a tagged notification is replaced.
	CloseReasonReplaced CloseReason = 100
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	case CloseReasonReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}
