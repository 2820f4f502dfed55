package delegation

import (
	"context"
	"fmt"
	"slices"

	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/memory/agent"
	"github.com/deepagents/control/backend/memory/subagent"
	"github.com/google/uuid"
)

// Store adapts the relational memory client to the interfaces consumed by
// Service.
type Store struct {
	db *memory.Client
}

var _ Transactor = (*Store)(nil)

func NewStore(db *memory.Client) *Store {
	return &Store{db: db}
}

func (s *Store) WithinTx(ctx context.Context, fn func(Repository) error) error {
	_, err := memory.Transaction(ctx, s.db, func(tx *memory.Client) (*struct{}, error) {
		return nil, fn(repository{db: tx})
	})
	return err
}

func (s *Store) View(ctx context.Context, fn func(Repository) error) error {
	tx, err := s.db.Tx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	return fn(repository{db: tx.Client()})
}

type repository struct {
	db *memory.Client
}

func (r repository) Agents() AgentStore {
	return agentStore(r)
}

func (r repository) Edges() EdgeStore {
	return edgeStore(r)
}

type agentStore struct {
	db *memory.Client
}

func (s agentStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.db.Agent.Query().Where(agent.ID(id), agent.NotDeleted()).Exist(ctx)
}

func (s agentStore) Summaries(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]AgentSummary, error) {
	result := make(map[uuid.UUID]AgentSummary, len(ids))
	for chunk := range slices.Chunk(ids, DefaultBatchSize) {
		agents, err := s.db.Agent.Query().Where(agent.IDIn(chunk...), agent.NotDeleted()).All(ctx)
		if err != nil {
			return nil, err
		}
		for _, a := range agents {
			result[a.ID] = AgentSummary{ID: a.ID, Name: a.Name, IsActive: a.IsActive}
		}
	}
	return result, nil
}

type edgeStore struct {
	db *memory.Client
}

func (s edgeStore) EdgesFrom(ctx context.Context, parents ...uuid.UUID) ([]Edge, error) {
	if len(parents) == 0 {
		return nil, nil
	}

	rows, err := s.db.Subagent.Query().
		Where(subagent.AgentIDIn(parents...)).
		Order(subagent.ByPriority()).
		All(ctx)
	if err != nil {
		return nil, err
	}

	edges := make([]Edge, len(rows))
	for i, row := range rows {
		edges[i] = edgeFromMemory(row)
	}
	return edges, nil
}

func (s edgeStore) Find(ctx context.Context, parent, child uuid.UUID) (*Edge, error) {
	row, err := s.db.Subagent.Query().Where(subagent.Edge(parent, child)).First(ctx)
	if err != nil {
		if memory.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	edge := edgeFromMemory(row)
	return &edge, nil
}

func (s edgeStore) Create(ctx context.Context, edge Edge) (*Edge, error) {
	row, err := s.db.Subagent.Create().
		SetAgentID(edge.ParentID).
		SetSubagentID(edge.ChildID).
		SetDelegationPrompt(edge.DelegationPrompt).
		SetPriority(edge.Priority).
		Save(ctx)
	if err != nil {
		if memory.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrDuplicateEdge, edge.ParentID, edge.ChildID)
		}
		return nil, err
	}
	created := edgeFromMemory(row)
	return &created, nil
}

func (s edgeStore) Update(ctx context.Context, id int, patch Patch) (*Edge, error) {
	update := s.db.Subagent.UpdateOneID(id)
	if patch.DelegationPrompt != nil {
		update.SetDelegationPrompt(*patch.DelegationPrompt)
	}
	if patch.Priority != nil {
		update.SetPriority(*patch.Priority)
	}

	row, err := update.Save(ctx)
	if err != nil {
		if memory.IsNotFound(err) {
			return nil, fmt.Errorf("%w: edge %d", ErrSubagentNotFound, id)
		}
		return nil, err
	}
	updated := edgeFromMemory(row)
	return &updated, nil
}

func (s edgeStore) Delete(ctx context.Context, id int) error {
	err := s.db.Subagent.DeleteOneID(id).Exec(ctx)
	if memory.IsNotFound(err) {
		return fmt.Errorf("%w: edge %d", ErrSubagentNotFound, id)
	}
	return err
}

func edgeFromMemory(row *memory.Subagent) Edge {
	return Edge{
		ID:               row.ID,
		ParentID:         row.AgentID,
		ChildID:          row.SubagentID,
		DelegationPrompt: row.DelegationPrompt,
		Priority:         row.Priority,
		CreatedAt:        row.CreateTime,
		UpdatedAt:        row.UpdateTime,
	}
}
