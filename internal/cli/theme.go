package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/khalidelboray/convos/internal/viewport"
)

// ThemeOptions holds flags for the theme command.
type ThemeOptions struct {
	*RootOptions
	List bool
}

// NewThemeCommand creates the theme command.
func NewThemeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ThemeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "theme [theme] [scheme]",
		Short: "Activate a theme",
		Long: `Select the stylesheet for a theme and color scheme and remember both
in the session cookie. Omitted arguments keep the current values; the
scheme "auto" follows the operating system preference (--dark).

Exit codes:
  0 - Stylesheet selected
  1 - The catalog has no stylesheets
  2 - Command error (unreadable catalog, etc.)

Examples:
  viewport theme --themes themes.cue --list
  viewport theme hacker dark --themes themes.cue`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTheme(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.List, "list", false, "list the available themes")

	return cmd
}

func runTheme(opts *ThemeOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	a, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.List {
		var fields Fields
		for _, option := range a.view.ThemeOptions.Get() {
			name := option[1]
			if a.view.HasColorSchemes(option[0]) {
				name += " (color schemes)"
			}
			fields = append(fields, Field{Key: option[0], Value: name})
		}
		return formatter.Success(fields)
	}

	var theme, scheme string
	if len(args) > 0 {
		theme = args[0]
	}
	if len(args) > 1 {
		scheme = args[1]
	}

	selected, err := a.view.ActivateTheme(theme, scheme)
	a.loop.Drain()
	if errors.Is(err, viewport.ErrNoStylesheet) {
		return formatter.Fail(ExitFailure, CodeNoStylesheet, "no stylesheet available", err)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to activate theme", err)
	}

	return formatter.Success(Fields{
		{Key: "id", Value: selected.ID},
		{Key: "href", Value: selected.Href},
		{Key: "title", Value: selected.Title},
		{Key: "theme", Value: a.view.Theme.Get()},
		{Key: "colorScheme", Value: a.view.ColorScheme.Get()},
	})
}
