package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys. Each is also a persistent flag and a CONVOS_*
// environment variable.
const (
	keyFormat     = "format"
	keyVerbose    = "verbose"
	keyDB         = "db"
	keyCookieName = "cookie-name"
	keyThemes     = "themes"
	keySettings   = "settings"
	keyDark       = "dark"
)

const (
	configFileName = "viewport"
	envPrefix      = "CONVOS"
	defaultDB      = "convos.db"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	DB         string // sqlite path for durable values and the cookie jar
	Config     string // config file; default ./viewport.yaml when present
	CookieName string
	Themes     string // CUE theme catalog
	Settings   string // YAML settings file
	Dark       bool   // operating system prefers a dark color scheme
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the viewport CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "viewport",
		Short: "Inspect and change persisted viewport state",
		Long: `Inspect and change the reactive viewport state of a convos client:
window size, color scheme, theme and the version stamp.

Durable values and the session cookie are kept in a sqlite database.
Every flag can also be set in viewport.yaml or as a CONVOS_* environment
variable (for example CONVOS_COOKIE_NAME).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, opts); err != nil {
				return err
			}
			configureLogging(cmd.ErrOrStderr(), opts.Verbose)
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, keyVerbose, "v", false, "verbose output")
	flags.StringVar(&opts.Format, keyFormat, "text", "output format (json|text)")
	flags.StringVar(&opts.DB, keyDB, defaultDB, "sqlite database path")
	flags.StringVar(&opts.Config, "config", "", "config file (default ./viewport.yaml)")
	flags.StringVar(&opts.CookieName, keyCookieName, "convos_js", "session cookie name")
	flags.StringVar(&opts.Themes, keyThemes, "", "CUE theme catalog")
	flags.StringVar(&opts.Settings, keySettings, "", "YAML settings file")
	flags.BoolVar(&opts.Dark, keyDark, false, "operating system prefers a dark color scheme")

	// Add subcommands
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewThemeCommand(opts))
	cmd.AddCommand(NewSettingsCommand(opts))
	cmd.AddCommand(NewKeysCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// loadConfig layers flags over CONVOS_* variables over the config file and
// writes the result back into opts.
func loadConfig(cmd *cobra.Command, opts *RootOptions) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return WrapExitError(ExitCommandError, "failed to bind flags", err)
	}

	if opts.Config != "" {
		v.SetConfigFile(opts.Config)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.Config != "" || !errors.As(err, &notFound) {
			return WrapExitError(ExitCommandError, "failed to read config", err)
		}
	}

	opts.Format = v.GetString(keyFormat)
	opts.Verbose = v.GetBool(keyVerbose)
	opts.DB = v.GetString(keyDB)
	opts.CookieName = v.GetString(keyCookieName)
	opts.Themes = v.GetString(keyThemes)
	opts.Settings = v.GetString(keySettings)
	opts.Dark = v.GetBool(keyDark)
	return nil
}

// configureLogging installs a text handler on w, at Debug level when
// verbose and Warn otherwise.
func configureLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
