package memory

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/deepagents/control/backend/memory/predicate"
	"github.com/deepagents/control/backend/memory/subagent"
	"github.com/google/uuid"
)

// Subagent is a delegation edge from AgentID to SubagentID.
type Subagent struct {
	ID               int       `json:"id,omitempty"`
	CreateTime       time.Time `json:"create_time,omitempty"`
	UpdateTime       time.Time `json:"update_time,omitempty"`
	DelegationPrompt string    `json:"delegation_prompt,omitempty"`
	Priority         int       `json:"priority,omitempty"`
	AgentID          uuid.UUID `json:"agent_id,omitempty"`
	SubagentID       uuid.UUID `json:"subagent_id,omitempty"`
}

func scanSubagent(rows *entsql.Rows) (*Subagent, error) {
	s := &Subagent{}
	err := rows.Scan(
		&s.ID,
		&s.CreateTime,
		&s.UpdateTime,
		&s.DelegationPrompt,
		&s.Priority,
		&s.AgentID,
		&s.SubagentID,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

type SubagentClient struct {
	driver dialect.Driver
}

func (c *SubagentClient) Create() *SubagentCreate {
	return &SubagentCreate{driver: c.driver, subagent: &Subagent{}}
}

func (c *SubagentClient) Query() *SubagentQuery {
	return &SubagentQuery{query[predicate.Subagent, Subagent]{
		driver:  c.driver,
		label:   "subagent",
		table:   subagent.Table,
		columns: subagent.Columns,
		scan:    scanSubagent,
	}}
}

func (c *SubagentClient) Get(ctx context.Context, id int) (*Subagent, error) {
	return c.Query().Where(func(s *entsql.Selector) {
		s.Where(entsql.EQ(s.C(subagent.FieldID), id))
	}).First(ctx)
}

func (c *SubagentClient) UpdateOneID(id int) *SubagentUpdateOne {
	return &SubagentUpdateOne{driver: c.driver, id: id, mutation: &mutation{}}
}

func (c *SubagentClient) DeleteOneID(id int) *DeleteOne {
	return &DeleteOne{driver: c.driver, label: "subagent", table: subagent.Table, pred: entsql.EQ(subagent.FieldID, id)}
}

type SubagentQuery struct {
	query[predicate.Subagent, Subagent]
}

func (q *SubagentQuery) Where(ps ...predicate.Subagent) *SubagentQuery {
	q.where(ps...)
	return q
}

func (q *SubagentQuery) Order(o ...func(*entsql.Selector)) *SubagentQuery {
	q.order = append(q.order, o...)
	return q
}

type SubagentCreate struct {
	driver   dialect.Driver
	subagent *Subagent
}

func (c *SubagentCreate) SetAgentID(id uuid.UUID) *SubagentCreate {
	c.subagent.AgentID = id
	return c
}

func (c *SubagentCreate) SetSubagentID(id uuid.UUID) *SubagentCreate {
	c.subagent.SubagentID = id
	return c
}

func (c *SubagentCreate) SetDelegationPrompt(v string) *SubagentCreate {
	c.subagent.DelegationPrompt = v
	return c
}

func (c *SubagentCreate) SetPriority(v int) *SubagentCreate {
	c.subagent.Priority = v
	return c
}

func (c *SubagentCreate) Save(ctx context.Context) (*Subagent, error) {
	s := *c.subagent
	s.CreateTime = now()
	s.UpdateTime = s.CreateTime

	res, err := insert(ctx, c.driver, subagent.Table, subagent.Columns[1:], []any{
		s.CreateTime,
		s.UpdateTime,
		s.DelegationPrompt,
		s.Priority,
		s.AgentID,
		s.SubagentID,
	})
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("memory: reading subagent id: %w", err)
	}
	s.ID = int(id)
	return &s, nil
}

type SubagentUpdateOne struct {
	driver   dialect.Driver
	id       int
	mutation *mutation
}

func (u *SubagentUpdateOne) SetDelegationPrompt(v string) *SubagentUpdateOne {
	u.mutation.set(subagent.FieldDelegationPrompt, v)
	return u
}

func (u *SubagentUpdateOne) SetPriority(v int) *SubagentUpdateOne {
	u.mutation.set(subagent.FieldPriority, v)
	return u
}

func (u *SubagentUpdateOne) Save(ctx context.Context) (*Subagent, error) {
	if err := updateOne(ctx, u.driver, "subagent", subagent.Table, subagent.FieldID, u.id, u.mutation); err != nil {
		return nil, err
	}
	return (&SubagentClient{driver: u.driver}).Get(ctx, u.id)
}
