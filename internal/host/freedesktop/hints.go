package freedesktop

import (
	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/notifier/internal/host"
)

// Hint names from the freedesktop notification spec, plus the stack tag
// understood by dunst.
const (
	hintUrgency       = "urgency"
	hintCategory      = "category"
	hintDesktopEntry  = "desktop-entry"
	hintImagePath     = "image-path"
	hintSuppressSound = "suppress-sound"
	hintResident      = "resident"
	hintStackTag      = "x-dunst-stack-tag"
	hintTag           = "x-notifier-tag"
)

// buildHints converts options into the Notify hints map.
// Lang, Dir and Badge have no freedesktop equivalent and are dropped.
func buildHints(opts host.Options, desktopEntry string) map[string]dbus.Variant {
	hints := make(map[string]dbus.Variant)

	if opts.Urgency != host.UrgencyDefault {
		hints[hintUrgency] = dbus.MakeVariant(opts.Urgency.Level())
	}
	if opts.Category != "" {
		hints[hintCategory] = dbus.MakeVariant(opts.Category)
	}
	if desktopEntry != "" {
		hints[hintDesktopEntry] = dbus.MakeVariant(desktopEntry)
	}
	if opts.Image != "" {
		hints[hintImagePath] = dbus.MakeVariant(opts.Image)
	}
	if host.BoolValue(opts.Silent) {
		hints[hintSuppressSound] = dbus.MakeVariant(true)
	}
	if host.BoolValue(opts.RequireInteraction) {
		hints[hintResident] = dbus.MakeVariant(true)
	}
	if opts.Tag != "" {
		hints[hintStackTag] = dbus.MakeVariant(opts.Tag)
		hints[hintTag] = dbus.MakeVariant(opts.Tag)
	}
	return hints
}

// buildActions flattens actions into the alternating key/label list Notify expects.
// The default action is always present so body clicks are reported.
func buildActions(opts host.Options) []string {
	actions := []string{DefaultActionKey, ""}
	for _, a := range opts.Actions {
		if a.Key == "" || a.Key == DefaultActionKey {
			continue
		}
		actions = append(actions, a.Key, a.Label)
	}
	return actions
}

// expireTimeout returns the Notify expire_timeout in milliseconds.
// -1 lets the server decide, 0 keeps the notification until dismissed.
func expireTimeout(opts host.Options) int32 {
	if host.BoolValue(opts.RequireInteraction) {
		return 0
	}
	return -1
}
