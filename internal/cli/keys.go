package cli

import (
	"github.com/spf13/cobra"
)

// NewKeysCommand creates the keys command.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List stored keys",
		Long: `List the keys held in the durable store and in the session cookie.

Opening the viewport writes the defaults of non-lazy persisted properties,
so a fresh database already lists them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(rootOpts, cmd)
		},
	}
}

func runKeys(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	durable, err := a.durable.Keys(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list durable keys", err)
	}
	session, err := a.session.Keys()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list session keys", err)
	}

	if durable == nil {
		durable = []string{}
	}
	return formatter.Success(Fields{
		{Key: "durable", Value: durable},
		{Key: "session", Value: session},
	})
}
