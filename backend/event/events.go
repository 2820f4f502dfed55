package event

import "github.com/google/uuid"

type Event interface {
	Event()
}

// ExecutionCreated is published after a pending execution was committed.
type ExecutionCreated struct {
	ExecutionID uuid.UUID
}

func (ExecutionCreated) Event() {}

type ExecutionCancelled struct {
	ExecutionID uuid.UUID
}

func (ExecutionCancelled) Event() {}

// AgentDeleted is published when an agent is soft or hard deleted.
type AgentDeleted struct {
	AgentID   uuid.UUID
	Permanent bool
}

func (AgentDeleted) Event() {}
