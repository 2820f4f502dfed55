package cmd

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/deepagents/control/frontend/cli/pkg/fail"
	"github.com/deepagents/control/frontend/cli/pkg/terminal"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...cmd.Version=v1.2.3".
var Version = "0.1.0"

type versionOptions struct {
	Server bool
}

func NewVersionCmd() *cobra.Command {
	options := versionOptions{}
	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the version number of DeepAgents",
		GroupID: "system",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := semver.NewVersion(Version)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "deepagents version %s %s\n", Version, terminal.Faint("(development build)"))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deepagents version %s\n", client)

			if !options.Server {
				return nil
			}

			if err := setAPIClient(cmd.Context(), cmd); err != nil {
				return fail.HandleError(cmd, err)
			}
			health, err := getAPIClient(cmd.Context()).Health().Health(cmd.Context())
			if err != nil {
				return fail.HandleError(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "server version %s\n", health.Version)

			server, err := semver.NewVersion(health.Version)
			if err == nil && server.Major() != client.Major() {
				fmt.Fprintln(cmd.OutOrStdout(), terminal.Warning("client and server major versions differ, some commands may not work"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&options.Server, "server", false, "also print the version of the server of the current context")
	return cmd
}
