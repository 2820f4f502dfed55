package delegation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Edge is a persisted delegation from ParentID to ChildID.
type Edge struct {
	ID               int
	ParentID         uuid.UUID
	ChildID          uuid.UUID
	DelegationPrompt string
	Priority         int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type AgentSummary struct {
	ID       uuid.UUID
	Name     string
	IsActive bool
}

// Delegation is an edge resolved with the summary of its child agent.
type Delegation struct {
	Edge
	Subagent AgentSummary
}

// Patch holds the mutable fields of an edge. Nil fields are left unchanged.
type Patch struct {
	DelegationPrompt *string
	Priority         *int
}

func (p Patch) Empty() bool {
	return p.DelegationPrompt == nil && p.Priority == nil
}

type AgentStore interface {
	// Exists reports whether the agent exists and is not soft deleted.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// Summaries returns the summaries of the given agents. Missing and soft
	// deleted agents are absent from the result.
	Summaries(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]AgentSummary, error)
}

type EdgeStore interface {
	// EdgesFrom returns all edges whose parent is one of parents, ordered by
	// priority and then creation order.
	EdgesFrom(ctx context.Context, parents ...uuid.UUID) ([]Edge, error)
	// Find returns the edge parent -> child or nil if there is none.
	Find(ctx context.Context, parent, child uuid.UUID) (*Edge, error)
	Create(ctx context.Context, edge Edge) (*Edge, error)
	Update(ctx context.Context, id int, patch Patch) (*Edge, error)
	Delete(ctx context.Context, id int) error
}

type Repository interface {
	Agents() AgentStore
	Edges() EdgeStore
}

type Transactor interface {
	// WithinTx runs fn in a read-write transaction. fn's error rolls it back.
	WithinTx(ctx context.Context, fn func(Repository) error) error
	// View runs fn against one snapshot of the store. Writes made by fn are
	// discarded.
	View(ctx context.Context, fn func(Repository) error) error
}
