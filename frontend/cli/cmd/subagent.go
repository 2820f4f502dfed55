package cmd

import (
	"context"
	"fmt"

	api "github.com/deepagents/control/api/go/client"
	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/frontend/cli/pkg/fail"
	"github.com/deepagents/control/frontend/cli/pkg/terminal"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func NewSubagentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subagent",
		Aliases: []string{"sub"},
		Short:   "Manage the delegation graph",
		Long: `Manage which agents an agent may delegate work to.

Relationships form a directed acyclic graph. Adding an edge that would let
an agent reach itself is rejected by the server.`,
		GroupID: "resource",
	}

	cmd.AddCommand(NewSubagentAddCmd())
	cmd.AddCommand(NewSubagentListCmd())
	cmd.AddCommand(NewSubagentUpdateCmd())
	cmd.AddCommand(NewSubagentRemoveCmd())

	return cmd
}

type SubagentDisplay struct {
	ID         int    `json:"id" yaml:"id" detail:"default"`
	Priority   int    `json:"priority" yaml:"priority" detail:"default"`
	Subagent   string `json:"subagent" yaml:"subagent" detail:"default"`
	Active     bool   `json:"active" yaml:"active" detail:"default"`
	SubagentID string `json:"subagentId" yaml:"subagentId" column:"SUBAGENT ID" detail:"full"`
	Prompt     string `json:"prompt,omitempty" yaml:"prompt,omitempty" detail:"full" render:"markdown"`
}

func ConvertSubagentToDisplay(subagent *v1.Subagent) *SubagentDisplay {
	if subagent == nil {
		return nil
	}

	display := &SubagentDisplay{
		ID:         subagent.ID,
		Priority:   subagent.Priority,
		SubagentID: subagent.SubagentID.String(),
		Prompt:     subagent.DelegationPrompt,
	}
	if subagent.Subagent != nil {
		display.Subagent = subagent.Subagent.Name
		display.Active = subagent.Subagent.IsActive
	}
	return display
}

// resolveEdge resolves the parent and child references of a subagent command.
func resolveEdge(ctx context.Context, client *api.Client, parent, child string) (uuid.UUID, uuid.UUID, error) {
	parentID, err := getAgentID(ctx, client, parent)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	childID, err := getAgentID(ctx, client, child)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return parentID, childID, nil
}

type subagentAddOptions struct {
	Prompt   string
	Priority int
}

func NewSubagentAddCmd() *cobra.Command {
	var options subagentAddOptions

	cmd := &cobra.Command{
		Use:   "add <agent> <subagent> [flags]",
		Short: "Allow an agent to delegate to another agent",
		Args:  cobra.ExactArgs(2),
		Example: `  # Let the planner delegate research work
  deepagents subagent add planner researcher --prompt "Use for literature searches" --priority 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := getAPIClient(cmd.Context())

			parentID, childID, err := resolveEdge(cmd.Context(), client, args[0], args[1])
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			subagent, err := client.Subagent().AddSubagent(cmd.Context(), parentID, &v1.AddSubagentRequest{
				SubagentID:       childID,
				DelegationPrompt: options.Prompt,
				Priority:         options.Priority,
			})
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s now delegates to %s (priority %d)\n", args[0], args[1], subagent.Priority)
			return nil
		},
	}

	cmd.Flags().StringVarP(&options.Prompt, "prompt", "p", "", "when the agent should delegate to the subagent")
	cmd.Flags().IntVar(&options.Priority, "priority", 0, "lower values are preferred")
	return cmd
}

type subagentListOptions struct {
	RenderOptions RenderOptions
}

func NewSubagentListCmd() *cobra.Command {
	var options subagentListOptions

	cmd := &cobra.Command{
		Use:     "list <agent>",
		Short:   "List the subagents of an agent in priority order",
		Aliases: []string{"ls"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := getAPIClient(cmd.Context())

			agentID, err := getAgentID(cmd.Context(), client, args[0])
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			subagents, err := client.Subagent().ListSubagents(cmd.Context(), agentID)
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			displays := make([]*SubagentDisplay, len(subagents))
			for i, subagent := range subagents {
				displays[i] = ConvertSubagentToDisplay(subagent)
			}

			return getRenderer(cmd.Context()).Render(cmd.OutOrStdout(), displays, &options.RenderOptions)
		},
	}

	addRenderOptions(cmd, &options.RenderOptions)
	return cmd
}

type subagentUpdateOptions struct {
	Prompt   string
	Priority int
}

func NewSubagentUpdateCmd() *cobra.Command {
	var options subagentUpdateOptions

	cmd := &cobra.Command{
		Use:   "update <agent> <subagent> [flags]",
		Short: "Change the prompt or priority of a subagent relationship",
		Args:  cobra.ExactArgs(2),
		Example: `  # Prefer the researcher over other subagents
  deepagents subagent update planner researcher --priority 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &v1.UpdateSubagentRequest{}
			if cmd.Flags().Changed("prompt") {
				req.DelegationPrompt = &options.Prompt
			}
			if cmd.Flags().Changed("priority") {
				req.Priority = &options.Priority
			}
			if req.DelegationPrompt == nil && req.Priority == nil {
				return fail.HandleError(cmd, fmt.Errorf("nothing to update, set --prompt or --priority"))
			}

			client := getAPIClient(cmd.Context())
			parentID, childID, err := resolveEdge(cmd.Context(), client, args[0], args[1])
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			subagent, err := client.Subagent().UpdateSubagent(cmd.Context(), parentID, childID, req)
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "updated %s %s %s (priority %d)\n", args[0], terminal.Arrow(), args[1], subagent.Priority)
			return nil
		},
	}

	cmd.Flags().StringVarP(&options.Prompt, "prompt", "p", "", "new delegation prompt")
	cmd.Flags().IntVar(&options.Priority, "priority", 0, "new priority, lower values are preferred")
	return cmd
}

type subagentRemoveOptions struct {
	Force bool
}

func NewSubagentRemoveCmd() *cobra.Command {
	var options subagentRemoveOptions

	cmd := &cobra.Command{
		Use:     "remove <agent> <subagent> [flags]",
		Short:   "Stop an agent from delegating to a subagent",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !options.Force {
				message := fmt.Sprintf("Are you sure you want to remove subagent %s from %s?", args[1], args[0])
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), message) {
					return nil
				}
			}

			client := getAPIClient(cmd.Context())
			parentID, childID, err := resolveEdge(cmd.Context(), client, args[0], args[1])
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			if err := client.Subagent().RemoveSubagent(cmd.Context(), parentID, childID); err != nil {
				return fail.HandleError(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&options.Force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}
