// Package host defines the platform notification capability consumed by the notifier.
package host

import (
	"context"
	"strings"
	"time"
)

// Permission is the host's answer to "may this application show notifications".
type Permission string

const (
	// PermissionGranted allows notifications to be displayed.
	PermissionGranted Permission = "granted"
	// PermissionDenied blocks notifications. No request should be issued.
	PermissionDenied Permission = "denied"
	// PermissionDefault means the user has not decided yet.
	PermissionDefault Permission = "default"
)

// ParsePermission converts a string to a Permission.
// Anything unrecognised is treated as undetermined.
func ParsePermission(s string) Permission {
	switch Permission(strings.ToLower(strings.TrimSpace(s))) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	default:
		return PermissionDefault
	}
}

// String returns the permission name.
func (p Permission) String() string {
	if p == "" {
		return string(PermissionDefault)
	}
	return string(p)
}

// Urgency of a notification. The zero value leaves the choice to the host.
type Urgency int

const (
	UrgencyDefault Urgency = iota
	UrgencyLow
	UrgencyNormal
	UrgencyCritical
)

// UrgencyNames maps urgency levels to human-readable names.
var UrgencyNames = map[Urgency]string{
	UrgencyDefault:  "default",
	UrgencyLow:      "low",
	UrgencyNormal:   "normal",
	UrgencyCritical: "critical",
}

// ParseUrgency converts a name to an Urgency. Unknown names return false.
func ParseUrgency(s string) (Urgency, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return UrgencyDefault, true
	}
	for u, name := range UrgencyNames {
		if strings.EqualFold(name, s) {
			return u, true
		}
	}
	return UrgencyDefault, false
}

// String returns the urgency name.
func (u Urgency) String() string {
	if name, ok := UrgencyNames[u]; ok {
		return name
	}
	return "unknown"
}

// Level returns the freedesktop urgency byte (0 low, 1 normal, 2 critical).
func (u Urgency) Level() byte {
	switch u {
	case UrgencyLow:
		return 0
	case UrgencyCritical:
		return 2
	default:
		return 1
	}
}

// Action is a button offered on a notification.
type Action struct {
	Key   string `json:"key" toml:"key" yaml:"key"`
	Label string `json:"label" toml:"label" yaml:"label"`
}

// Options are the display fields passed to the host when creating a notification.
// The title is passed separately. Zero values mean "not set".
type Options struct {
	Body     string `json:"body,omitempty"`
	Icon     string `json:"icon,omitempty"`  // Icon name or file path
	Image    string `json:"image,omitempty"` // Larger image, file path
	Badge    string `json:"badge,omitempty"`
	Tag      string `json:"tag,omitempty"` // Notifications sharing a tag replace each other
	Lang     string `json:"lang,omitempty"`
	Dir      string `json:"dir,omitempty"` // auto, ltr, rtl
	Category string `json:"category,omitempty"`

	Urgency Urgency `json:"urgency,omitempty"`

	// Flags are pointers so an explicit false can override a true default.
	RequireInteraction *bool `json:"require_interaction,omitempty"`
	Silent             *bool `json:"silent,omitempty"`
	Renotify           *bool `json:"renotify,omitempty"`

	Timestamp time.Time         `json:"timestamp,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
	Actions   []Action          `json:"actions,omitempty"`
}

// Bool returns a pointer to v, for setting Options flags.
func Bool(v bool) *bool {
	return &v
}

// BoolValue returns the flag value, false when unset.
func BoolValue(p *bool) bool {
	return p != nil && *p
}

// Handle is one displayed notification.
// Implementations must be comparable; the notifier tracks handles by identity.
type Handle interface {
	// ID identifies the notification for logging. Backends may return "".
	ID() string
	// OnClick replaces the click slot.
	OnClick(fn func())
	// OnClose replaces the close slot. When the notification has already
	// gone away, fn runs right away.
	OnClose(fn func())
	// Close removes the notification. Safe to call more than once.
	Close() error
}

// ActionHandle is a Handle that reports its action buttons.
type ActionHandle interface {
	Handle
	// OnAction replaces the action slot; fn receives the action key.
	OnAction(fn func(key string))
}

// Capability is the host notification service.
type Capability interface {
	// Permission reads the current permission state.
	Permission(ctx context.Context) (Permission, error)
	// RequestPermission asks the user (or the platform) for permission.
	RequestPermission(ctx context.Context) (Permission, error)
	// Create displays a notification and returns its handle.
	Create(ctx context.Context, title string, opts Options) (Handle, error)
}

// Focuser brings the calling application to the foreground.
type Focuser interface {
	Focus(ctx context.Context) error
}

// NopFocuser is used when the platform cannot focus the application.
type NopFocuser struct{}

// Focus does nothing.
func (NopFocuser) Focus(context.Context) error { return nil }
