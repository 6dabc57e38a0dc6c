package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khalidelboray/convos/internal/viewport"
)

// NewSettingsCommand creates the settings command.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "settings <key> [value]",
		Short: "Read or write a settings entry",
		Long: `Read or write an entry of the settings file given with --settings.

"yes" and "no" read as booleans, "contact" is stored base64 encoded and
organization_name / organization_url are aliases for the contact meta
entries. Only existing entries can be written.

Examples:
  viewport settings app_mode --settings settings.yaml
  viewport settings organization_name "Convos HQ" --settings settings.yaml`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettings(rootOpts, args, cmd)
		},
	}
}

func runSettings(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if opts.Settings == "" {
		return NewExitError(ExitCommandError, "--settings is required")
	}

	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	key := args[0]
	if len(args) == 2 {
		if err := a.view.SetSetting(key, parseSetting(args[1])); err != nil {
			return settingError(formatter, key, err)
		}
		if err := a.view.Settings().Save(opts.Settings); err != nil {
			return WrapExitError(ExitFailure, "failed to save settings", err)
		}
		formatter.VerboseLog("saved %s", opts.Settings)
	}

	v, err := a.view.Setting(key)
	if err != nil {
		return settingError(formatter, key, err)
	}
	return formatter.Success(Fields{{Key: key, Value: v}})
}

func settingError(formatter *OutputFormatter, key string, err error) error {
	if errors.Is(err, viewport.ErrUnknownSetting) {
		return formatter.Fail(ExitCommandError, CodeUnknownSetting,
			fmt.Sprintf("unknown setting %q", key), err)
	}
	return WrapExitError(ExitFailure, fmt.Sprintf("setting %q", key), err)
}

// parseSetting maps true/false/yes/no to booleans and keeps anything else
// as a string.
func parseSetting(raw string) any {
	switch raw {
	case "true", "yes":
		return true
	case "false", "no":
		return false
	}
	return raw
}
