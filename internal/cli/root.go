// Package cli provides the Cobra command structure for navedit.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/navedit/internal/config"
	"github.com/iw2rmb/navedit/internal/logging"
)

// ErrProblemsFound signals that check found problems. It only selects the
// exit code.
var ErrProblemsFound = errors.New("document has problems")

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	debug      bool
	configPath string
}

// NewRootCommand creates the root navedit command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "navedit",
		Short: "Edit and validate a JSON navigation document",
		Long: `navedit edits the JSON document that describes a site's navigation
categories and links.

It validates the document on every keystroke, formats it on demand and
exposes save, refresh and download shortcuts. The same editor runs in the
terminal and, behind GitHub sign-in, over a websocket from the admin server.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")

	rootCmd.AddCommand(newEditCommand(opts))
	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newFormatCommand(opts))
	rootCmd.AddCommand(newSchemaCommand())
	rootCmd.AddCommand(newConfigCommand(opts))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

// loadConfig resolves configuration for cmd. A positional document path
// overrides the configured one; override applies command flags.
func loadConfig(cmd *cobra.Command, opts *globalOptions, args []string, override func(*config.Config)) (*config.Config, error) {
	res, err := config.Load(cmd.Context(), config.LoadOptions{
		ExplicitPath: opts.configPath,
		Overrides: func(c *config.Config) {
			if len(args) > 0 {
				c.Document = args[0]
			}
			if opts.debug {
				c.LogLevel = "debug"
			}
			if override != nil {
				override(c)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	if res.LoadedFrom != "" {
		logging.FromContext(cmd.Context()).Debug("config loaded", logging.FieldPath, res.LoadedFrom)
	}
	if err := res.Config.Validate(); err != nil {
		return nil, err
	}
	return res.Config, nil
}
