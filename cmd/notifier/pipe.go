package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/notifier/internal/config"
	"github.com/jmylchreest/notifier/internal/host"
	"github.com/jmylchreest/notifier/internal/notifier"
)

var pipeOpts struct {
	linger        bool
	dismissOnExit bool
	watchConfig   bool
}

var pipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Show a notification for every line read from stdin",
	Long: `Read notifications from stdin, one per line, and show each.

A line is either plain text, used as the title, or a JSON object:

  {"title": "Build finished", "body": "all green", "urgency": "low",
   "icon": "dialog-information", "category": "transfer.complete",
   "tag": "build", "renotify": false, "auto_dismiss": "5s", "delay": "1s",
   "silent": false, "require_interaction": false}

The object {"dismiss_all": true} closes every notification shown so far.
The id of each shown notification is printed on stdout.

Defaults come from the config file, which is reloaded while running.
On interrupt every notification is dismissed.`,
	Args: cobra.NoArgs,
	RunE: runPipe,
}

func init() {
	rootCmd.AddCommand(pipeCmd)

	pipeCmd.Flags().BoolVar(&pipeOpts.linger, "linger", false,
		"After end of input, keep running until every notification has closed")
	pipeCmd.Flags().BoolVar(&pipeOpts.dismissOnExit, "dismiss-on-exit", false,
		"Dismiss all notifications at end of input")
	pipeCmd.Flags().BoolVar(&pipeOpts.watchConfig, "watch-config", true,
		"Reload notification defaults when the config file changes")
}

// pipeRequest is one JSON line read by the pipe command.
type pipeRequest struct {
	Title              string `json:"title"`
	Body               string `json:"body"`
	Icon               string `json:"icon"`
	Image              string `json:"image"`
	Category           string `json:"category"`
	Urgency            string `json:"urgency"`
	Tag                string `json:"tag"`
	Renotify           *bool  `json:"renotify"`
	Silent             *bool  `json:"silent"`
	RequireInteraction *bool  `json:"require_interaction"`
	AutoDismiss        string `json:"auto_dismiss"`
	Delay              string `json:"delay"`
	DismissAll         bool   `json:"dismiss_all"`
}

// parsePipeLine parses a line of pipe input. Blank lines yield nil.
func parsePipeLine(line string) (*pipeRequest, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}
	if !strings.HasPrefix(line, "{") {
		return &pipeRequest{Title: line}, nil
	}

	var req pipeRequest
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return nil, fmt.Errorf("invalid notification JSON: %w", err)
	}
	if !req.DismissAll && req.Title == "" {
		return nil, errors.New("notification has no title")
	}
	return &req, nil
}

// options converts the request into per-call notifier options.
func (r *pipeRequest) options() (notifier.Options, error) {
	urgency, ok := host.ParseUrgency(r.Urgency)
	if !ok {
		return notifier.Options{}, fmt.Errorf("invalid urgency %q", r.Urgency)
	}

	var autoDismiss, delay config.Duration
	if r.AutoDismiss != "" {
		if err := autoDismiss.UnmarshalText([]byte(r.AutoDismiss)); err != nil {
			return notifier.Options{}, err
		}
	}
	if r.Delay != "" {
		if err := delay.UnmarshalText([]byte(r.Delay)); err != nil {
			return notifier.Options{}, err
		}
	}

	return notifier.Options{
		Options: host.Options{
			Body:               r.Body,
			Icon:               r.Icon,
			Image:              r.Image,
			Category:           r.Category,
			Urgency:            urgency,
			Tag:                r.Tag,
			Renotify:           r.Renotify,
			Silent:             r.Silent,
			RequireInteraction: r.RequireInteraction,
			Timestamp:          time.Now(),
		},
		AutoDismiss: autoDismiss.Duration(),
		Delay:       delay.Duration(),
	}, nil
}

// lockedWriter serialises writes from result subscribers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Println(a ...any) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	fmt.Fprintln(lw.w, a...)
}

func runPipe(cmd *cobra.Command, args []string) error {
	cfg := getConfig()

	b, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	n := newNotifier(b, cfg, logger)

	if pipeOpts.watchConfig {
		w, err := config.NewWatcher(globalOpts.configPath, func(c *config.Config) {
			n.SetDefaults(c.NotifierOptions())
			logger.Info("notification defaults reloaded")
		}, logger)
		if err != nil {
			logger.Warn("config reload disabled", "error", err)
		} else if err := w.Start(); err != nil {
			logger.Warn("config reload disabled", "error", err)
		} else {
			defer w.Stop()
		}
	}

	p := &pipe{n: n, out: &lockedWriter{w: cmd.OutOrStdout()}}
	start := time.Now()
	interrupted := p.consume(ctx, cmd.InOrStdin())

	logger.Info("input finished",
		"shown", humanize.Comma(p.shown.Load()),
		"started", humanize.Time(start))

	if interrupted || pipeOpts.dismissOnExit {
		n.DismissAll()
		return nil
	}

	p.wg.Wait()
	if pipeOpts.linger {
		p.linger(ctx)
	}
	return nil
}
