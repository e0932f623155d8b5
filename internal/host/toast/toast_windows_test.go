//go:build windows

package toast

import (
	"context"
	"errors"
	"testing"

	"github.com/go-toast/toast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notifier/internal/host"
)

func TestBuildToast(t *testing.T) {
	n := buildToast("Notifier", "Title", host.Options{
		Body:               "Body",
		Image:              `C:\img.png`,
		Silent:             host.Bool(true),
		RequireInteraction: host.Bool(true),
		Actions:            []host.Action{{Key: "open", Label: "Open"}, {Label: "skipped"}},
	})

	assert.Equal(t, "Notifier", n.AppID)
	assert.Equal(t, "Title", n.Title)
	assert.Equal(t, "Body", n.Message)
	assert.Equal(t, `C:\img.png`, n.Icon)
	assert.Equal(t, toast.Silent, n.Audio)
	assert.Equal(t, toast.Long, n.Duration)
	assert.Equal(t, []toast.Action{{Type: "protocol", Label: "Open", Arguments: "open"}}, n.Actions)
}

func TestHost_Create(t *testing.T) {
	h := New("Notifier", nil)
	var pushed []*toast.Notification
	h.push = func(n *toast.Notification) error {
		pushed = append(pushed, n)
		return nil
	}

	handle, err := h.Create(context.Background(), "Title", host.Options{Body: "Body"})
	require.NoError(t, err)
	assert.NotEmpty(t, handle.ID())
	require.Len(t, pushed, 1)
	assert.Equal(t, toast.Default, pushed[0].Audio)
}

func TestHost_CreateError(t *testing.T) {
	h := New("Notifier", nil)
	h.push = func(*toast.Notification) error { return errors.New("powershell failed") }

	_, err := h.Create(context.Background(), "Title", host.Options{})
	require.Error(t, err)
}
