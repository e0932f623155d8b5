package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/notifier/internal/host"
	"github.com/jmylchreest/notifier/internal/notifier"
)

var permissionOpts struct {
	request bool
	verbose bool
	timeout time.Duration
}

var permissionCmd = &cobra.Command{
	Use:   "permission",
	Short: "Show the notification permission state",
	Long: `Print the notification permission state: granted, denied or default.

With --request an undecided permission is requested first and the outcome
is printed. On Linux "default" means the notification service is not
running but can be started on demand.`,
	Args: cobra.NoArgs,
	RunE: runPermission,
}

func init() {
	rootCmd.AddCommand(permissionCmd)

	permissionCmd.Flags().BoolVarP(&permissionOpts.request, "request", "r", false,
		"Request permission when it has not been decided")
	permissionCmd.Flags().BoolVarP(&permissionOpts.verbose, "info", "I", false,
		"Also print information about the notification server")
	permissionCmd.Flags().DurationVar(&permissionOpts.timeout, "timeout", 0,
		"Give up after this long (0 = wait as long as the platform takes)")
}

func runPermission(cmd *cobra.Command, args []string) error {
	b, err := openBackend(getConfig(), logger)
	if err != nil {
		return err
	}
	defer b.Close()

	if b.capability == nil {
		return notifier.ErrNotSupported
	}

	ctx, cancel := waitContext(cmd.Context(), permissionOpts.timeout)
	defer cancel()

	perm, err := b.capability.Permission(ctx)
	if err != nil {
		return err
	}
	if permissionOpts.request && perm == host.PermissionDefault {
		if perm, err = b.capability.RequestPermission(ctx); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, perm)

	if permissionOpts.verbose {
		fmt.Fprintf(out, "backend: %s\n", b.name)
		if b.describe != nil && perm == host.PermissionGranted {
			lines, err := b.describe(ctx)
			if err != nil {
				logger.Warn("failed to query notification server", "error", err)
				return nil
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
		}
	}
	return nil
}
