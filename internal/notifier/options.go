package notifier

import (
	"fmt"
	"maps"
	"reflect"
	"time"

	"dario.cat/mergo"

	"github.com/jmylchreest/notifier/internal/host"
)

// Options configure a single notification.
// Zero-valued fields and nil flags are "not set" and fall back to the
// notifier defaults; an explicit host.Bool(false) overrides a true default.
type Options struct {
	host.Options

	// AutoDismiss closes the notification after this long. Zero or negative = never.
	AutoDismiss time.Duration `json:"auto_dismiss,omitempty"`
	// Delay waits this long before creating the notification.
	Delay time.Duration `json:"delay,omitempty"`
}

// Callbacks are optional hooks for a notification's lifecycle.
type Callbacks struct {
	OnClick func(h host.Handle)
	OnClose func(h host.Handle)
	// OnAction receives the key of an invoked action button. It is only
	// wired for handles that implement host.ActionHandle.
	OnAction           func(h host.Handle, key string)
	OnPermissionDenied func()
}

var (
	timeType = reflect.TypeOf(time.Time{})
	dataType = reflect.TypeOf(map[string]string(nil))
	flagType = reflect.TypeOf((*bool)(nil))
)

// replaceTransformer makes a set field replace the default as a whole:
// a non-zero time, a non-nil Data map or a non-nil flag. Maps are not
// merged key by key and flag pointers are never written through.
type replaceTransformer struct{}

func (replaceTransformer) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	switch typ {
	case timeType:
		return func(dst, src reflect.Value) error {
			if t, ok := src.Interface().(time.Time); ok && !t.IsZero() && dst.CanSet() {
				dst.Set(src)
			}
			return nil
		}
	case dataType, flagType:
		return func(dst, src reflect.Value) error {
			if !src.IsNil() && dst.CanSet() {
				dst.Set(src)
			}
			return nil
		}
	}
	return nil
}

// mergeOptions overlays override on base. Each set field in override
// replaces the base field; nothing is merged below field level.
// base is not modified.
func mergeOptions(base, override Options) (Options, error) {
	merged := base
	merged.Data = maps.Clone(base.Data)
	if len(base.Actions) > 0 {
		merged.Actions = append([]host.Action(nil), base.Actions...)
	}

	if err := mergo.Merge(&merged, override,
		mergo.WithOverride,
		mergo.WithTransformers(replaceTransformer{}),
	); err != nil {
		return base, fmt.Errorf("failed to merge options: %w", err)
	}
	if override.Data != nil {
		merged.Data = override.Data
	}
	return merged, nil
}

// mergeCallbacks overlays override on base. A set callback replaces the
// default one entirely.
func mergeCallbacks(base, override Callbacks) Callbacks {
	merged := base
	if override.OnClick != nil {
		merged.OnClick = override.OnClick
	}
	if override.OnClose != nil {
		merged.OnClose = override.OnClose
	}
	if override.OnAction != nil {
		merged.OnAction = override.OnAction
	}
	if override.OnPermissionDenied != nil {
		merged.OnPermissionDenied = override.OnPermissionDenied
	}
	return merged
}
