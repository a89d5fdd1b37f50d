package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/navedit/internal/config"
)

const redacted = "********"

func newConfigCommand(opts *globalOptions) *cobra.Command {
	var listEnv bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Long: `Print the configuration after applying the config file, NAVEDIT_*
environment variables and flags. Secrets are redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listEnv {
				vars := config.ListEnvVars()
				sort.Strings(vars)
				for _, v := range vars {
					fmt.Fprintln(cmd.OutOrStdout(), v)
				}
				return nil
			}

			cfg, err := loadConfig(cmd, opts, args, nil)
			if err != nil {
				return err
			}
			shown := *cfg
			if shown.Admin.SessionSecret != "" {
				shown.Admin.SessionSecret = redacted
			}
			if shown.Admin.GitHub.ClientSecret != "" {
				shown.Admin.GitHub.ClientSecret = redacted
			}
			out, err := config.Marshal(&shown)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().BoolVar(&listEnv, "env", false, "list supported environment variables")

	return cmd
}
