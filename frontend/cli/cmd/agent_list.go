package cmd

import (
	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/frontend/cli/pkg/fail"
	"github.com/spf13/cobra"
)

type agentListOptions struct {
	Name          string
	Active        bool
	Skip          int
	Limit         int
	RenderOptions RenderOptions
}

func NewAgentListCmd() *cobra.Command {
	var options agentListOptions

	cmd := &cobra.Command{
		Use:     "list [flags]",
		Short:   "List your agents",
		Aliases: []string{"ls"},
		Example: `  # List all agents in a table
  deepagents agent list

  # Only active agents whose name contains "research"
  deepagents agent ls --name research --active`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := getAPIClient(cmd.Context())

			req := &v1.ListAgentsRequest{
				Name:  options.Name,
				Skip:  options.Skip,
				Limit: options.Limit,
			}
			if cmd.Flags().Changed("active") {
				req.IsActive = &options.Active
			}

			agents, err := client.Agent().ListAgents(cmd.Context(), req)
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			displayAgents := make([]*AgentDisplay, len(agents))
			for i, agent := range agents {
				displayAgents[i] = ConvertAgentToDisplay(agent)
			}

			return getRenderer(cmd.Context()).Render(cmd.OutOrStdout(), displayAgents, &options.RenderOptions)
		},
	}

	cmd.Flags().StringVarP(&options.Name, "name", "n", "", "filter agents whose name contains the value")
	cmd.Flags().BoolVar(&options.Active, "active", false, "filter by activity, --active=false lists deactivated agents")
	cmd.Flags().IntVar(&options.Skip, "skip", 0, "number of agents to skip")
	cmd.Flags().IntVarP(&options.Limit, "limit", "l", 0, "limit the number of results returned")
	addRenderOptions(cmd, &options.RenderOptions)

	return cmd
}
