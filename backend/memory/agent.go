package memory

import (
	"context"
	stdsql "database/sql"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/deepagents/control/backend/memory/agent"
	"github.com/deepagents/control/backend/memory/predicate"
	"github.com/google/uuid"
)

type Agent struct {
	ID           uuid.UUID  `json:"id,omitempty"`
	CreateTime   time.Time  `json:"create_time,omitempty"`
	UpdateTime   time.Time  `json:"update_time,omitempty"`
	Name         string     `json:"name,omitempty"`
	Description  string     `json:"description,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
	ModelName    string     `json:"model_name,omitempty"`
	Temperature  float64    `json:"temperature,omitempty"`
	MaxTokens    int        `json:"max_tokens,omitempty"`
	IsActive     bool       `json:"is_active,omitempty"`
	DeleteTime   *time.Time `json:"delete_time,omitempty"`
	OwnerID      uuid.UUID  `json:"owner_id,omitempty"`
}

// Deleted reports whether the agent is soft deleted.
func (a *Agent) Deleted() bool {
	return a.DeleteTime != nil
}

func scanAgent(rows *entsql.Rows) (*Agent, error) {
	a := &Agent{}
	var deleteTime stdsql.NullTime
	err := rows.Scan(
		&a.ID,
		&a.CreateTime,
		&a.UpdateTime,
		&a.Name,
		&a.Description,
		&a.Instructions,
		&a.ModelName,
		&a.Temperature,
		&a.MaxTokens,
		&a.IsActive,
		&deleteTime,
		&a.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	a.DeleteTime = nullTime(deleteTime)
	return a, nil
}

type AgentClient struct {
	driver dialect.Driver
}

func (c *AgentClient) Create() *AgentCreate {
	return &AgentCreate{
		driver: c.driver,
		agent: &Agent{
			Temperature: agent.DefaultTemperature,
			MaxTokens:   agent.DefaultMaxTokens,
			IsActive:    true,
		},
	}
}

func (c *AgentClient) Query() *AgentQuery {
	return &AgentQuery{query[predicate.Agent, Agent]{
		driver:  c.driver,
		label:   "agent",
		table:   agent.Table,
		columns: agent.Columns,
		scan:    scanAgent,
	}}
}

// Get returns the agent with the given id, including soft-deleted agents.
func (c *AgentClient) Get(ctx context.Context, id uuid.UUID) (*Agent, error) {
	return c.Query().Where(agent.ID(id)).First(ctx)
}

func (c *AgentClient) UpdateOneID(id uuid.UUID) *AgentUpdateOne {
	return &AgentUpdateOne{driver: c.driver, id: id, mutation: &mutation{}}
}

// DeleteOneID permanently deletes the agent. Delegation edges, tool links and
// executions are removed by the foreign key cascade.
func (c *AgentClient) DeleteOneID(id uuid.UUID) *DeleteOne {
	return &DeleteOne{driver: c.driver, label: "agent", table: agent.Table, pred: entsql.EQ(agent.FieldID, id)}
}

// ToolIDs returns the tools linked to each of the given agents.
func (c *AgentClient) ToolIDs(ctx context.Context, agentIDs ...uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	result := make(map[uuid.UUID][]uuid.UUID, len(agentIDs))
	if len(agentIDs) == 0 {
		return result, nil
	}

	ids := make([]any, len(agentIDs))
	for i := range agentIDs {
		ids[i] = agentIDs[i]
	}

	b := builder(c.driver)
	query, args := b.Select(agent.ToolsAgentColumn, agent.ToolsToolColumn).
		From(b.Table(agent.ToolsTable)).
		Where(entsql.In(agent.ToolsAgentColumn, ids...)).
		OrderBy(agent.ToolsAgentColumn, agent.ToolsToolColumn).
		Query()

	err := queryRows(ctx, c.driver, query, args, func(rows *entsql.Rows) error {
		var agentID, toolID uuid.UUID
		if err := rows.Scan(&agentID, &toolID); err != nil {
			return err
		}
		result[agentID] = append(result[agentID], toolID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func setAgentTools(ctx context.Context, driver dialect.Driver, agentID uuid.UUID, clear bool, toolIDs []uuid.UUID) error {
	if clear {
		query, args := builder(driver).Delete(agent.ToolsTable).Where(entsql.EQ(agent.ToolsAgentColumn, agentID)).Query()
		if _, err := execResult(ctx, driver, query, args); err != nil {
			return err
		}
	}
	if len(toolIDs) == 0 {
		return nil
	}

	stmt := builder(driver).Insert(agent.ToolsTable).Columns(agent.ToolsAgentColumn, agent.ToolsToolColumn)
	seen := make(map[uuid.UUID]struct{}, len(toolIDs))
	for _, id := range toolIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		stmt.Values(agentID, id)
	}
	query, args := stmt.Query()
	if _, err := execResult(ctx, driver, query, args); err != nil {
		return constraintError(err)
	}
	return nil
}

type AgentQuery struct {
	query[predicate.Agent, Agent]
}

func (q *AgentQuery) Where(ps ...predicate.Agent) *AgentQuery {
	q.where(ps...)
	return q
}

func (q *AgentQuery) Limit(n int) *AgentQuery {
	q.limit = n
	return q
}

func (q *AgentQuery) Offset(n int) *AgentQuery {
	q.offset = n
	return q
}

// OrderByCreateTime sorts oldest first.
func (q *AgentQuery) OrderByCreateTime() *AgentQuery {
	q.order = append(q.order, func(s *entsql.Selector) {
		s.OrderBy(entsql.Asc(s.C(agent.FieldCreateTime)), entsql.Asc(s.C(agent.FieldID)))
	})
	return q
}

// IDs returns the ids of the matching agents.
func (q *AgentQuery) IDs(ctx context.Context) ([]uuid.UUID, error) {
	query, args := q.selector(agent.FieldID).Query()
	var ids []uuid.UUID
	err := queryRows(ctx, q.driver, query, args, func(rows *entsql.Rows) error {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	return ids, err
}

type AgentCreate struct {
	driver  dialect.Driver
	agent   *Agent
	toolIDs []uuid.UUID
}

func (c *AgentCreate) SetID(id uuid.UUID) *AgentCreate {
	c.agent.ID = id
	return c
}

func (c *AgentCreate) SetName(v string) *AgentCreate {
	c.agent.Name = v
	return c
}

func (c *AgentCreate) SetDescription(v string) *AgentCreate {
	c.agent.Description = v
	return c
}

func (c *AgentCreate) SetInstructions(v string) *AgentCreate {
	c.agent.Instructions = v
	return c
}

func (c *AgentCreate) SetModelName(v string) *AgentCreate {
	c.agent.ModelName = v
	return c
}

func (c *AgentCreate) SetTemperature(v float64) *AgentCreate {
	c.agent.Temperature = v
	return c
}

func (c *AgentCreate) SetMaxTokens(v int) *AgentCreate {
	c.agent.MaxTokens = v
	return c
}

func (c *AgentCreate) SetIsActive(v bool) *AgentCreate {
	c.agent.IsActive = v
	return c
}

func (c *AgentCreate) SetOwnerID(id uuid.UUID) *AgentCreate {
	c.agent.OwnerID = id
	return c
}

func (c *AgentCreate) AddToolIDs(ids ...uuid.UUID) *AgentCreate {
	c.toolIDs = append(c.toolIDs, ids...)
	return c
}

// Save inserts the agent and its tool links. Callers that link tools should
// run it inside a Transaction.
func (c *AgentCreate) Save(ctx context.Context) (*Agent, error) {
	a := *c.agent
	if a.ID == uuid.Nil {
		a.ID = uuid.Must(uuid.NewV7())
	}
	a.CreateTime = now()
	a.UpdateTime = a.CreateTime

	_, err := insert(ctx, c.driver, agent.Table, agent.Columns, []any{
		a.ID,
		a.CreateTime,
		a.UpdateTime,
		a.Name,
		a.Description,
		a.Instructions,
		a.ModelName,
		a.Temperature,
		a.MaxTokens,
		a.IsActive,
		nil,
		a.OwnerID,
	})
	if err != nil {
		return nil, err
	}

	if err := setAgentTools(ctx, c.driver, a.ID, false, c.toolIDs); err != nil {
		return nil, err
	}
	return &a, nil
}

type AgentUpdateOne struct {
	driver   dialect.Driver
	id       uuid.UUID
	mutation *mutation

	replaceTools bool
	toolIDs      []uuid.UUID
}

func (u *AgentUpdateOne) SetName(v string) *AgentUpdateOne {
	u.mutation.set(agent.FieldName, v)
	return u
}

func (u *AgentUpdateOne) SetDescription(v string) *AgentUpdateOne {
	u.mutation.set(agent.FieldDescription, v)
	return u
}

func (u *AgentUpdateOne) SetInstructions(v string) *AgentUpdateOne {
	u.mutation.set(agent.FieldInstructions, v)
	return u
}

func (u *AgentUpdateOne) SetModelName(v string) *AgentUpdateOne {
	u.mutation.set(agent.FieldModelName, v)
	return u
}

func (u *AgentUpdateOne) SetTemperature(v float64) *AgentUpdateOne {
	u.mutation.set(agent.FieldTemperature, v)
	return u
}

func (u *AgentUpdateOne) SetMaxTokens(v int) *AgentUpdateOne {
	u.mutation.set(agent.FieldMaxTokens, v)
	return u
}

func (u *AgentUpdateOne) SetIsActive(v bool) *AgentUpdateOne {
	u.mutation.set(agent.FieldIsActive, v)
	return u
}

func (u *AgentUpdateOne) SetDeleteTime(t time.Time) *AgentUpdateOne {
	u.mutation.set(agent.FieldDeleteTime, t.UTC())
	return u
}

func (u *AgentUpdateOne) ClearDeleteTime() *AgentUpdateOne {
	u.mutation.set(agent.FieldDeleteTime, nil)
	return u
}

// SetToolIDs replaces all tool links of the agent.
func (u *AgentUpdateOne) SetToolIDs(ids ...uuid.UUID) *AgentUpdateOne {
	u.replaceTools = true
	u.toolIDs = ids
	return u
}

func (u *AgentUpdateOne) Save(ctx context.Context) (*Agent, error) {
	if err := updateOne(ctx, u.driver, "agent", agent.Table, agent.FieldID, u.id, u.mutation); err != nil {
		return nil, err
	}
	if u.replaceTools {
		if err := setAgentTools(ctx, u.driver, u.id, true, u.toolIDs); err != nil {
			return nil, err
		}
	}
	return (&AgentClient{driver: u.driver}).Get(ctx, u.id)
}
