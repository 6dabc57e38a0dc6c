package cli

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/khalidelboray/convos/internal/reactive"
	"github.com/khalidelboray/convos/internal/viewport"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print every update event",
		Long: `Run the event loop and print the current values, then every update
event as it is flushed. With --themes the catalog is reloaded whenever the
file changes and the current theme is re-activated.

Stops on SIGINT or SIGTERM.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(rootOpts, cmd)
		},
	}
}

// UpdateEvent is one line of watch output.
type UpdateEvent struct {
	Changed map[string]bool `json:"changed,omitempty"`
	Values  map[string]any  `json:"values"`
}

func runWatch(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Subscribe reports the current values first, with a nil changed map.
	unsubscribe := a.view.Subscribe(func(r *reactive.Reactive, changed map[string]bool) {
		values := r.Snapshot()
		if changed != nil {
			values = make(map[string]any, len(changed))
			for _, name := range slices.Sorted(maps.Keys(changed)) {
				values[name], _ = r.Read(name)
			}
		}
		if err := formatter.Success(UpdateEvent{Changed: changed, Values: values}); err != nil {
			slog.Warn("failed to write update", "error", err)
		}
	})
	defer unsubscribe()

	if opts.Themes != "" {
		err := viewport.WatchCatalog(ctx, opts.Themes, func(c *viewport.Catalog, err error) {
			if err != nil {
				slog.Warn("catalog reload failed", "path", opts.Themes, "error", err)
				return
			}
			a.loop.Schedule(func() {
				a.view.SetCatalog(c)
				if _, err := a.view.ActivateTheme("", ""); err != nil {
					slog.Warn("theme activation failed", "error", err)
				}
			})
		})
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to watch themes", err)
		}
	}

	slog.Info("watching", "db", opts.DB)
	if err := a.loop.Run(ctx); err != nil && !isCanceled(err) {
		return WrapExitError(ExitFailure, "event loop failed", err)
	}
	return nil
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
