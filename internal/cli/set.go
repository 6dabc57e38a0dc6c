package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khalidelboray/convos/internal/reactive"
	"github.com/khalidelboray/convos/internal/value"
)

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set name=value...",
		Short: "Update properties",
		Long: `Update one or more properties in a single batch and print which
properties changed.

Values are parsed as JSON in the property's type; anything else is taken
as a plain string. Read-only properties are reported as unchanged.

Examples:
  viewport set colorScheme=dark
  viewport set width=1024 height=768
  viewport set version=2.0 --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(rootOpts, args, cmd)
		},
	}
}

func runSet(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	partial := make(map[string]any, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return formatter.Fail(ExitCommandError, CodeInvalidValue,
				fmt.Sprintf("invalid assignment %q: expected name=value", arg), nil)
		}
		current, err := a.view.Read(name)
		if err != nil {
			return formatter.Fail(ExitCommandError, CodeUnknownProperty,
				fmt.Sprintf("unknown property %q", name), err)
		}
		partial[name] = parseValue(raw, current)
	}

	next := a.view.Next(reactive.EventUpdate)
	a.view.Update(partial)
	a.loop.Drain()

	changed := map[string]bool{}
	select {
	case <-next.Done():
		if args, err := next.Wait(context.Background()); err == nil && len(args) > 1 {
			changed, _ = args[1].(map[string]bool)
		}
	default:
		next.Cancel()
	}

	formatter.VerboseLog("%d of %d properties changed", countTrue(changed), len(partial))
	if len(changed) == 0 && opts.Format != "json" {
		return formatter.Success("no changes")
	}
	fields := make(Fields, 0, len(changed))
	for _, name := range slices.Sorted(maps.Keys(changed)) {
		fields = append(fields, Field{Key: name, Value: changed[name]})
	}
	return formatter.Success(fields)
}

// parseValue decodes raw as JSON into the type of like, falling back to the
// raw string.
func parseValue(raw string, like any) any {
	if v, err := value.DecodeAs([]byte(raw), like); err == nil {
		return v
	}
	return raw
}

func countTrue(m map[string]bool) int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}
