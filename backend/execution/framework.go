package execution

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/deepagents/control/backend/memory/schema/types"
	"github.com/deepagents/control/backend/tool"
	"github.com/google/uuid"
)

// ErrTransient marks framework failures that are worth retrying.
var ErrTransient = errors.New("transient framework error")

// Framework runs an agent. Implementations report progress through
// Request.Emit.
type Framework interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

type Request struct {
	ExecutionID uuid.UUID
	Agent       AgentSpec
	Subagents   []SubagentSpec
	Tools       []ToolSpec
	Input       string
	Emit        func(ctx context.Context, eventType types.ExecutionEventType, payload map[string]any) error
}

type AgentSpec struct {
	ID           uuid.UUID
	Name         string
	Instructions string
	ModelName    string
	Temperature  float64
	MaxTokens    int
}

type SubagentSpec struct {
	ID               uuid.UUID
	Name             string
	DelegationPrompt string
	Priority         int
}

type ToolSpec struct {
	ID     uuid.UUID
	Name   string
	Type   types.ToolType
	Config map[string]any
}

type Result struct {
	Output       string
	InputTokens  int64
	OutputTokens int64
}

// MockFramework is a deterministic stand-in for an LLM agent framework. It
// echoes the input, runs function tools and counts whitespace separated
// words as tokens. Builtin tools run only when Toolbox is set; they receive
// the input as their JSON arguments and report failures as tool results.
type MockFramework struct {
	Toolbox *tool.Toolbox
}

var _ Framework = MockFramework{}

func (m MockFramework) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Emit(ctx, types.ExecutionEventStarted, map[string]any{
		"agent_id":   req.Agent.ID.String(),
		"model_name": req.Agent.ModelName,
	}); err != nil {
		return nil, err
	}

	for _, sub := range req.Subagents {
		if err := req.Emit(ctx, types.ExecutionEventDelegationAvailable, map[string]any{
			"subagent_id":       sub.ID.String(),
			"name":              sub.Name,
			"delegation_prompt": sub.DelegationPrompt,
			"priority":          sub.Priority,
		}); err != nil {
			return nil, err
		}
	}

	toolResults := map[string]any{}
	for _, t := range req.Tools {
		if t.Type == types.ToolTypeBuiltin && m.Toolbox != nil {
			out, err := m.Toolbox.Call(ctx, t.Name, t.Config, json.RawMessage(req.Input))
			if err != nil {
				toolResults[t.Name] = map[string]any{"error": err.Error()}
				continue
			}
			toolResults[t.Name] = out
			continue
		}
		if t.Type != types.ToolTypeFunction {
			continue
		}
		fn, err := tool.CompileFunction(t.Config)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", t.Name, err)
		}
		out, err := fn.Call(ctx, req.Input)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", t.Name, err)
		}
		toolResults[t.Name] = out
	}

	inputTokens := int64(len(strings.Fields(req.Agent.Instructions + " " + req.Input)))
	output := fmt.Sprintf("[%s] %s", req.Agent.Name, req.Input)
	outputTokens := int64(len(strings.Fields(output)))

	if err := req.Emit(ctx, types.ExecutionEventModelCall, map[string]any{
		"model_name":    req.Agent.ModelName,
		"input_tokens":  inputTokens,
		"output_tokens": outputTokens,
		"tool_results":  toolResults,
	}); err != nil {
		return nil, err
	}

	return &Result{Output: output, InputTokens: inputTokens, OutputTokens: outputTokens}, nil
}

// FrameworkFunc adapts a function to Framework.
type FrameworkFunc func(ctx context.Context, req Request) (*Result, error)

func (f FrameworkFunc) Run(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}
