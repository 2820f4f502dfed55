package cmd

import (
	"github.com/deepagents/control/frontend/cli/pkg/fail"
	"github.com/spf13/cobra"
)

type agentGetOptions struct {
	RenderOptions RenderOptions
}

func NewAgentGetCmd() *cobra.Command {
	var options agentGetOptions

	cmd := &cobra.Command{
		Use:   "get <id-or-name>",
		Short: "Show the details of an agent",
		Args:  cobra.ExactArgs(1),
		Example: `  # Show an agent by name
  deepagents agent get researcher

  # Print it as YAML
  deepagents agent get researcher -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := getAPIClient(cmd.Context())

			agentID, err := getAgentID(cmd.Context(), client, args[0])
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			agent, err := client.Agent().GetAgent(cmd.Context(), agentID)
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			return getRenderer(cmd.Context()).Render(cmd.OutOrStdout(), ConvertAgentToDisplay(agent), &options.RenderOptions)
		},
	}

	addRenderOptions(cmd, &options.RenderOptions, WithCardFormat)
	return cmd
}
