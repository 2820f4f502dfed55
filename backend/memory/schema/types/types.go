package types

import (
	"fmt"

	"github.com/google/uuid"
)

type ToolType string

const (
	ToolTypeBuiltin  ToolType = "builtin"
	ToolTypeFunction ToolType = "function"
	ToolTypeAPI      ToolType = "api"
)

func (ToolType) Values() []string {
	return []string{
		string(ToolTypeBuiltin),
		string(ToolTypeFunction),
		string(ToolTypeAPI),
	}
}

func ParseToolType(s string) (ToolType, error) {
	for _, v := range ToolType("").Values() {
		if v == s {
			return ToolType(s), nil
		}
	}
	return "", fmt.Errorf("invalid tool type %q", s)
}

type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusCancelled ExecutionStatus = "cancelled"
)

func (ExecutionStatus) Values() []string {
	return []string{
		string(ExecutionStatusPending),
		string(ExecutionStatusRunning),
		string(ExecutionStatusCompleted),
		string(ExecutionStatusFailed),
		string(ExecutionStatusCancelled),
	}
}

func ParseExecutionStatus(s string) (ExecutionStatus, error) {
	for _, v := range ExecutionStatus("").Values() {
		if v == s {
			return ExecutionStatus(s), nil
		}
	}
	return "", fmt.Errorf("invalid execution status %q", s)
}

// Terminal reports whether no further transition is allowed from s.
func (s ExecutionStatus) Terminal() bool {
	switch s {
	case ExecutionStatusCompleted, ExecutionStatusFailed, ExecutionStatusCancelled:
		return true
	}
	return false
}

type ExecutionEventType string

const (
	ExecutionEventStarted             ExecutionEventType = "execution_started"
	ExecutionEventDelegationAvailable ExecutionEventType = "delegation_available"
	ExecutionEventModelCall           ExecutionEventType = "model_call"
	ExecutionEventCompleted           ExecutionEventType = "execution_completed"
	ExecutionEventFailed              ExecutionEventType = "execution_failed"
	ExecutionEventCancelled           ExecutionEventType = "execution_cancelled"
)

// TemplateConfig is the agent configuration stored by a template.
type TemplateConfig struct {
	Instructions string      `json:"instructions"`
	ModelName    string      `json:"model_name"`
	Temperature  float64     `json:"temperature"`
	MaxTokens    int         `json:"max_tokens"`
	ToolIDs      []uuid.UUID `json:"tool_ids,omitempty"`
}
