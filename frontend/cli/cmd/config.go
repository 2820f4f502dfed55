package cmd

import (
	"fmt"

	"github.com/deepagents/control/frontend/cli/pkg/fail"
	"github.com/deepagents/control/shared/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Inspect the server configuration",
		GroupID: "system",
	}

	cmd.AddCommand(NewConfigShowCmd())
	cmd.AddCommand(NewConfigSchemaCmd())

	return cmd
}

type configShowOptions struct {
	ConfigFile string
}

func NewConfigShowCmd() *cobra.Command {
	options := configShowOptions{}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective server configuration with secrets masked",
		Example: `  # Show what serve would use, including DEEPAGENTS_* overrides
  deepagents config show --config /etc/deepagents/server.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServerConfig(cmd, options.ConfigFile)
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			out, err := yaml.Marshal(cfg.Redacted())
			if err != nil {
				return fail.HandleError(cmd, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&options.ConfigFile, "config", "c", "", "path of the server configuration file")
	return cmd
}

func NewConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the server configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := config.JSONSchema()
			if err != nil {
				return fail.HandleError(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(schema))
			return nil
		},
	}
}
