package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get [name...]",
		Short: "Print property values",
		Long: `Print the current value of each named property, or of every
property when no names are given.

Examples:
  viewport get
  viewport get colorScheme theme
  viewport get version --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, args, cmd)
		},
	}
}

func runGet(opts *RootOptions, names []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(names) == 0 {
		names = a.view.Names()
	}

	fields := make(Fields, 0, len(names))
	for _, name := range names {
		v, err := a.view.Read(name)
		if err != nil {
			return formatter.Fail(ExitCommandError, CodeUnknownProperty,
				fmt.Sprintf("unknown property %q", name), err)
		}
		fields = append(fields, Field{Key: name, Value: v})
	}
	return formatter.Success(fields)
}
