package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[defaults]\nurgency = \"low\"\n"), 0644))

	var mu sync.Mutex
	var got []*Config
	w, err := NewWatcher(path, func(cfg *Config) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, cfg)
	}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	// Invalid content is skipped
	require.NoError(t, os.WriteFile(path, []byte("[defaults]\nurgency = \"urgent\"\n"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("[defaults]\nurgency = \"critical\"\n"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && got[len(got)-1].Defaults.Urgency == "critical"
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, cfg := range got {
		assert.NotEqual(t, "urgent", cfg.Defaults.Urgency)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	var mu sync.Mutex
	calls := 0
	w, err := NewWatcher(path, func(*Config) {
		mu.Lock()
		calls++
		mu.Unlock()
	}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0644))

	assert.Never(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls > 0
	}, 200*time.Millisecond, 10*time.Millisecond)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
