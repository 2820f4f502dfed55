package cmd

import (
	"fmt"

	"github.com/deepagents/control/frontend/cli/pkg/fail"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type agentDeleteOptions struct {
	Force     bool
	Permanent bool
}

func NewAgentDeleteCmd() *cobra.Command {
	var options agentDeleteOptions

	cmd := &cobra.Command{
		Use:     "delete <id-or-name>... [flags]",
		Short:   "Delete one or more agents",
		Aliases: []string{"rm"},
		Args:    cobra.MinimumNArgs(1),
		Example: `  # Soft delete an agent, it can be restored later
  deepagents agent delete researcher

  # Remove two agents and their delegation edges for good
  deepagents agent rm --permanent --force researcher writer`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := getAPIClient(cmd.Context())

			if !options.Force && !confirmDeletion(cmd.InOrStdin(), cmd.OutOrStdout(), "agent", args) {
				return nil
			}

			agentIDs := make([]uuid.UUID, 0, len(args))
			for _, idOrName := range args {
				agentID, err := getAgentID(cmd.Context(), client, idOrName)
				if err != nil {
					return fail.HandleError(cmd, err)
				}
				agentIDs = append(agentIDs, agentID)
			}

			for i, agentID := range agentIDs {
				if err := client.Agent().DeleteAgent(cmd.Context(), agentID, options.Permanent); err != nil {
					return fail.HandleError(cmd, fmt.Errorf("failed to delete agent %s: %w", args[i], err))
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&options.Force, "force", "f", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&options.Permanent, "permanent", false, "remove the agent and its subagent relationships instead of soft deleting it")
	return cmd
}
