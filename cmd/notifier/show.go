package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/notifier/internal/host"
	"github.com/jmylchreest/notifier/internal/notifier"
)

var errPermissionDenied = errors.New("notification permission denied")

var showOpts struct {
	body               string
	icon               string
	image              string
	urgency            string
	category           string
	tag                string
	actions            []string
	autoDismiss        time.Duration
	delay              time.Duration
	silent             bool
	requireInteraction bool
	renotify           bool
	wait               bool
}

var showCmd = &cobra.Command{
	Use:   "show TITLE",
	Short: "Show a notification",
	Long: `Show a notification and print its id.

Permission is checked first and requested when the platform has not decided
yet. If permission is denied nothing is shown and the command exits non-zero.

With --wait the command blocks until the notification is clicked, closed,
or an action is invoked, and prints "clicked", "closed" or "action:<key>".
Backends that do not report interaction only report closes triggered by
--auto-dismiss.

Without --wait the command returns once the id is printed, unless
--auto-dismiss is set. The dismiss timer lives in this process, so the
command then stays until the notification has closed.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVarP(&showOpts.body, "body", "b", "", "Notification body")
	showCmd.Flags().StringVarP(&showOpts.icon, "icon", "i", "", "Icon name or path")
	showCmd.Flags().StringVar(&showOpts.image, "image", "", "Image path")
	showCmd.Flags().StringVarP(&showOpts.urgency, "urgency", "u", "",
		"Urgency level (low, normal, critical)")
	showCmd.Flags().StringVarP(&showOpts.category, "category", "c", "", "Notification category")
	showCmd.Flags().StringVarP(&showOpts.tag, "tag", "t", "",
		"Tag; a notification with the same tag replaces the previous one")
	showCmd.Flags().StringSliceVarP(&showOpts.actions, "action", "a", nil,
		"Action button as key=Label (repeatable)")
	showCmd.Flags().DurationVar(&showOpts.autoDismiss, "auto-dismiss", 0,
		"Close the notification after this long (0 = never)")
	showCmd.Flags().DurationVar(&showOpts.delay, "delay", 0,
		"Wait this long before showing the notification")
	showCmd.Flags().BoolVar(&showOpts.silent, "silent", false, "Do not play a sound")
	showCmd.Flags().BoolVar(&showOpts.requireInteraction, "require-interaction", false,
		"Keep the notification until the user dismisses it")
	showCmd.Flags().BoolVar(&showOpts.renotify, "renotify", false,
		"Alert again when replacing a tagged notification")
	showCmd.Flags().BoolVarP(&showOpts.wait, "wait", "w", false,
		"Wait for the notification to be clicked or closed")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg := getConfig()

	opts, err := showOptions(cmd.Flags().Changed)
	if err != nil {
		return err
	}

	b, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return showNotification(ctx, newNotifier(b, cfg, logger), args[0], opts, showOpts.wait, cmd.OutOrStdout())
}

// showNotification shows one notification and prints its id to out. With
// wait it blocks for the first interaction and prints it. Without wait it
// still blocks until an auto-dismiss timer has closed the notification, since
// the timer does not outlive the process.
func showNotification(ctx context.Context, n *notifier.Notifier, title string, opts notifier.Options, wait bool, out io.Writer) error {
	var denied atomic.Bool
	events := make(chan string, 8)
	send := func(event string) {
		select {
		case events <- event:
		default:
		}
	}

	start := time.Now()
	result := n.Show(title, opts, notifier.Callbacks{
		OnClick:            func(host.Handle) { send("clicked") },
		OnClose:            func(host.Handle) { send("closed") },
		OnAction:           func(_ host.Handle, key string) { send("action:" + key) },
		OnPermissionDenied: func() { denied.Store(true) },
	})

	h, err := result.Wait(ctx)
	if err != nil {
		return err
	}
	if h == nil {
		if denied.Load() {
			return errPermissionDenied
		}
		return errors.New("notification was not shown")
	}
	fmt.Fprintln(out, h.ID())

	if !wait && opts.AutoDismiss <= 0 {
		return nil
	}

	for {
		select {
		case event := <-events:
			if !wait && event != "closed" {
				continue
			}
			logger.Debug("notification finished", "id", h.ID(), "event", event, "shown", humanize.Time(start))
			if wait {
				fmt.Fprintln(out, event)
			}
			return nil
		case <-ctx.Done():
			n.DismissAll()
			return ctx.Err()
		}
	}
}

// showOptions builds per-call options from the show flags. Boolean flags
// are only set when given on the command line so configured defaults apply
// otherwise.
func showOptions(changed func(name string) bool) (notifier.Options, error) {
	urgency, ok := host.ParseUrgency(showOpts.urgency)
	if !ok {
		return notifier.Options{}, fmt.Errorf("invalid urgency %q, must be one of: low, normal, critical", showOpts.urgency)
	}
	actions, err := parseActions(showOpts.actions)
	if err != nil {
		return notifier.Options{}, err
	}

	return notifier.Options{
		Options: host.Options{
			Body:               showOpts.body,
			Icon:               showOpts.icon,
			Image:              showOpts.image,
			Category:           showOpts.category,
			Tag:                showOpts.tag,
			Urgency:            urgency,
			Silent:             flagValue(changed, "silent", showOpts.silent),
			RequireInteraction: flagValue(changed, "require-interaction", showOpts.requireInteraction),
			Renotify:           flagValue(changed, "renotify", showOpts.renotify),
			Timestamp:          time.Now(),
			Actions:            actions,
		},
		AutoDismiss: showOpts.autoDismiss,
		Delay:       showOpts.delay,
	}, nil
}

func flagValue(changed func(string) bool, name string, v bool) *bool {
	if !changed(name) {
		return nil
	}
	return host.Bool(v)
}

// parseActions parses key=Label pairs. A missing label reuses the key.
func parseActions(specs []string) ([]host.Action, error) {
	var actions []host.Action
	for _, s := range specs {
		key, label, found := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid action %q: missing key", s)
		}
		if !found {
			label = key
		}
		actions = append(actions, host.Action{Key: key, Label: strings.TrimSpace(label)})
	}
	return actions, nil
}

// waitContext returns ctx bounded by timeout when timeout is positive.
func waitContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
