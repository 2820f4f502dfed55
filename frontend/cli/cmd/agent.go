package cmd

import (
	"context"
	"fmt"
	"time"

	api "github.com/deepagents/control/api/go/client"
	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

func NewAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agent",
		Short:   "Manage agents",
		Long:    `Manage agents, including creation, deletion, retrieval, and listing.`,
		GroupID: "resource",
	}

	cmd.AddCommand(NewAgentCreateCmd())
	cmd.AddCommand(NewAgentListCmd())
	cmd.AddCommand(NewAgentGetCmd())
	cmd.AddCommand(NewAgentDeleteCmd())

	return cmd
}

type AgentDisplay struct {
	ID           string    `json:"id" yaml:"id" detail:"default"`
	Name         string    `json:"name" yaml:"name" detail:"default"`
	Model        string    `json:"model" yaml:"model" detail:"default"`
	Active       bool      `json:"active" yaml:"active" detail:"default"`
	Temperature  float64   `json:"temperature" yaml:"temperature" detail:"full"`
	MaxTokens    int       `json:"maxTokens" yaml:"maxTokens" column:"MAX TOKENS" detail:"full"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty" detail:"full"`
	Instructions string    `json:"instructions,omitempty" yaml:"instructions,omitempty" detail:"full" render:"markdown"`
	Tools        []string  `json:"tools,omitempty" yaml:"tools,omitempty" detail:"full"`
	Created      time.Time `json:"created" yaml:"created" detail:"full"`
}

func ConvertAgentToDisplay(agent *v1.Agent) *AgentDisplay {
	if agent == nil {
		return nil
	}

	var tools []string
	for _, id := range agent.ToolIDs {
		tools = append(tools, id.String())
	}

	return &AgentDisplay{
		ID:           agent.ID.String(),
		Name:         agent.Name,
		Model:        agent.ModelName,
		Active:       agent.IsActive,
		Temperature:  agent.Temperature,
		MaxTokens:    agent.MaxTokens,
		Description:  agent.Description,
		Instructions: agent.Instructions,
		Tools:        tools,
		Created:      agent.CreatedAt,
	}
}

// getAgentID resolves an agent reference that is either an ID or an exact
// agent name. Unknown names get a suggestion of the closest match.
func getAgentID(ctx context.Context, client *api.Client, idOrName string) (uuid.UUID, error) {
	if id, err := uuid.Parse(idOrName); err == nil {
		return id, nil
	}

	agents, err := client.Agent().ListAgents(ctx, &v1.ListAgentsRequest{Limit: v1.MaxLimit})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to list agents: %w", err)
	}

	var matches []*v1.Agent
	names := make([]string, len(agents))
	for i, agent := range agents {
		names[i] = agent.Name
		if agent.Name == idOrName {
			matches = append(matches, agent)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0].ID, nil
	case 0:
		if suggestions := fuzzy.Find(idOrName, names); len(suggestions) > 0 {
			return uuid.Nil, fmt.Errorf("agent %s not found, did you mean %s?", idOrName, suggestions[0].Str)
		}
		return uuid.Nil, fmt.Errorf("agent %s not found", idOrName)
	default:
		return uuid.Nil, fmt.Errorf("multiple agents are named %s, use the agent ID instead", idOrName)
	}
}
