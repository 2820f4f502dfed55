package conv

import (
	"fmt"

	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/memory/schema/types"
)

func MemoryExecutionToAPI(e *memory.Execution) *v1.Execution {
	return &v1.Execution{
		ID:           e.ID,
		AgentID:      e.AgentID,
		UserID:       e.UserID,
		Input:        e.Input,
		Output:       e.Output,
		Status:       string(e.Status),
		Error:        e.Error,
		InputTokens:  e.InputTokens,
		OutputTokens: e.OutputTokens,
		Cost:         e.Cost,
		StartedAt:    e.StartedAt,
		CompletedAt:  e.CompletedAt,
		CreatedAt:    e.CreateTime,
	}
}

func MemoryExecutionEventToAPI(e *memory.ExecutionEvent) *v1.ExecutionEvent {
	return &v1.ExecutionEvent{
		Sequence:  e.Sequence,
		EventType: string(e.EventType),
		Payload:   e.Payload,
		CreatedAt: e.CreateTime,
	}
}

func APIExecutionStatusToMemory(s string) (types.ExecutionStatus, error) {
	switch status := types.ExecutionStatus(s); status {
	case types.ExecutionStatusPending, types.ExecutionStatusRunning, types.ExecutionStatusCompleted,
		types.ExecutionStatusFailed, types.ExecutionStatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("unknown execution status %q", s)
	}
}
