package cmd

import (
	"fmt"
	"io"

	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/frontend/cli/pkg/fail"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type agentCreateOptions struct {
	Description       string
	Instructions      string
	InstructionsFile  string
	InstructionsStdin bool
	Model             string
	Temperature       float64
	MaxTokens         int
	Tools             []string
	Inactive          bool
}

func NewAgentCreateCmd() *cobra.Command {
	var options agentCreateOptions

	cmd := &cobra.Command{
		Use:   "create <name> [flags]",
		Short: "Create a new agent",
		Args:  cobra.ExactArgs(1),
		Example: `  # Create an agent with inline instructions
  deepagents agent create researcher --instructions "Find primary sources"

  # Read the instructions from a file and pick a model
  deepagents agent create coder --instructions-file coder.md --model claude-opus-4

  # Pipe the instructions in
  cat coder.md | deepagents agent create coder --instructions-stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := getAPIClient(cmd.Context())

			instructions, err := agentInstructions(cmd, options)
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			req := &v1.CreateAgentRequest{
				Name:         args[0],
				Description:  options.Description,
				Instructions: instructions,
				ModelName:    options.Model,
			}
			if cmd.Flags().Changed("temperature") {
				req.Temperature = &options.Temperature
			}
			if cmd.Flags().Changed("max-tokens") {
				req.MaxTokens = &options.MaxTokens
			}
			if options.Inactive {
				active := false
				req.IsActive = &active
			}
			for _, tool := range options.Tools {
				id, err := uuid.Parse(tool)
				if err != nil {
					return fail.HandleError(cmd, fmt.Errorf("invalid tool ID %s", tool))
				}
				req.ToolIDs = append(req.ToolIDs, id)
			}

			agent, err := client.Agent().CreateAgent(cmd.Context(), req)
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), agent.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&options.Description, "description", "d", "", "description of the agent")
	cmd.Flags().StringVarP(&options.Instructions, "instructions", "i", "", "system instructions of the agent")
	cmd.Flags().StringVar(&options.InstructionsFile, "instructions-file", "", "read the instructions from a file")
	cmd.Flags().BoolVar(&options.InstructionsStdin, "instructions-stdin", false, "read the instructions from stdin")
	cmd.Flags().StringVarP(&options.Model, "model", "m", "", "model of the agent (server default when empty)")
	cmd.Flags().Float64Var(&options.Temperature, "temperature", 0, "sampling temperature between 0 and 2")
	cmd.Flags().IntVar(&options.MaxTokens, "max-tokens", 0, "maximum number of tokens per response")
	cmd.Flags().StringArrayVarP(&options.Tools, "tool", "t", nil, "ID of a tool to attach, repeatable")
	cmd.Flags().BoolVar(&options.Inactive, "inactive", false, "create the agent deactivated")
	cmd.MarkFlagsMutuallyExclusive("instructions", "instructions-file", "instructions-stdin")

	return cmd
}

func agentInstructions(cmd *cobra.Command, options agentCreateOptions) (string, error) {
	switch {
	case options.InstructionsFile != "":
		content, err := getFileSystem(cmd.Context()).ReadFile(options.InstructionsFile)
		if err != nil {
			return "", fmt.Errorf("failed to read instructions file: %w", err)
		}
		return string(content), nil
	case options.InstructionsStdin:
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read instructions from stdin: %w", err)
		}
		return string(content), nil
	default:
		return options.Instructions, nil
	}
}
