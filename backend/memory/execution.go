package memory

import (
	"context"
	stdsql "database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/deepagents/control/backend/memory/execution"
	"github.com/deepagents/control/backend/memory/executionevent"
	"github.com/deepagents/control/backend/memory/predicate"
	"github.com/deepagents/control/backend/memory/schema/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Execution struct {
	ID           uuid.UUID             `json:"id,omitempty"`
	CreateTime   time.Time             `json:"create_time,omitempty"`
	UpdateTime   time.Time             `json:"update_time,omitempty"`
	Input        string                `json:"input,omitempty"`
	Output       string                `json:"output,omitempty"`
	Status       types.ExecutionStatus `json:"status,omitempty"`
	Error        string                `json:"error,omitempty"`
	InputTokens  int64                 `json:"input_tokens,omitempty"`
	OutputTokens int64                 `json:"output_tokens,omitempty"`
	Cost         decimal.Decimal       `json:"cost"`
	StartedAt    *time.Time            `json:"started_at,omitempty"`
	CompletedAt  *time.Time            `json:"completed_at,omitempty"`
	AgentID      uuid.UUID             `json:"agent_id,omitempty"`
	UserID       uuid.UUID             `json:"user_id,omitempty"`
}

func scanExecution(rows *entsql.Rows) (*Execution, error) {
	e := &Execution{}
	var (
		status               string
		startedAt, completed stdsql.NullTime
	)
	err := rows.Scan(
		&e.ID,
		&e.CreateTime,
		&e.UpdateTime,
		&e.Input,
		&e.Output,
		&status,
		&e.Error,
		&e.InputTokens,
		&e.OutputTokens,
		&e.Cost,
		&startedAt,
		&completed,
		&e.AgentID,
		&e.UserID,
	)
	if err != nil {
		return nil, err
	}
	e.Status = types.ExecutionStatus(status)
	e.StartedAt = nullTime(startedAt)
	e.CompletedAt = nullTime(completed)
	return e, nil
}

type ExecutionClient struct {
	driver dialect.Driver
}

func (c *ExecutionClient) Create() *ExecutionCreate {
	return &ExecutionCreate{
		driver:    c.driver,
		execution: &Execution{Status: types.ExecutionStatusPending, Cost: decimal.Zero},
	}
}

func (c *ExecutionClient) Query() *ExecutionQuery {
	return &ExecutionQuery{query[predicate.Execution, Execution]{
		driver:  c.driver,
		label:   "execution",
		table:   execution.Table,
		columns: execution.Columns,
		scan:    scanExecution,
	}}
}

func (c *ExecutionClient) Get(ctx context.Context, id uuid.UUID) (*Execution, error) {
	return c.Query().Where(execution.ID(id)).First(ctx)
}

func (c *ExecutionClient) UpdateOneID(id uuid.UUID) *ExecutionUpdateOne {
	return &ExecutionUpdateOne{driver: c.driver, id: id, mutation: &mutation{}}
}

// Transition moves the execution to the status set on u only when its current
// status is one of from. It reports whether the row changed.
func (c *ExecutionClient) Transition(ctx context.Context, u *ExecutionUpdateOne, from ...types.ExecutionStatus) (bool, error) {
	statuses := make([]any, len(from))
	for i := range from {
		statuses[i] = string(from[i])
	}
	n, err := update(ctx, c.driver, execution.Table, u.mutation, entsql.And(
		entsql.EQ(execution.FieldID, u.id),
		entsql.In(execution.FieldStatus, statuses...),
	))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type ExecutionQuery struct {
	query[predicate.Execution, Execution]
}

func (q *ExecutionQuery) Where(ps ...predicate.Execution) *ExecutionQuery {
	q.where(ps...)
	return q
}

func (q *ExecutionQuery) Limit(n int) *ExecutionQuery {
	q.limit = n
	return q
}

func (q *ExecutionQuery) Offset(n int) *ExecutionQuery {
	q.offset = n
	return q
}

// OrderByNewest sorts the most recent executions first.
func (q *ExecutionQuery) OrderByNewest() *ExecutionQuery {
	q.order = append(q.order, func(s *entsql.Selector) {
		s.OrderBy(entsql.Desc(s.C(execution.FieldCreateTime)), entsql.Desc(s.C(execution.FieldID)))
	})
	return q
}

func (q *ExecutionQuery) OrderByOldest() *ExecutionQuery {
	q.order = append(q.order, func(s *entsql.Selector) {
		s.OrderBy(entsql.Asc(s.C(execution.FieldCreateTime)), entsql.Asc(s.C(execution.FieldID)))
	})
	return q
}

type ExecutionCreate struct {
	driver    dialect.Driver
	execution *Execution
}

func (c *ExecutionCreate) SetID(id uuid.UUID) *ExecutionCreate {
	c.execution.ID = id
	return c
}

func (c *ExecutionCreate) SetInput(v string) *ExecutionCreate {
	c.execution.Input = v
	return c
}

func (c *ExecutionCreate) SetStatus(v types.ExecutionStatus) *ExecutionCreate {
	c.execution.Status = v
	return c
}

func (c *ExecutionCreate) SetAgentID(id uuid.UUID) *ExecutionCreate {
	c.execution.AgentID = id
	return c
}

func (c *ExecutionCreate) SetUserID(id uuid.UUID) *ExecutionCreate {
	c.execution.UserID = id
	return c
}

func (c *ExecutionCreate) Save(ctx context.Context) (*Execution, error) {
	e := *c.execution
	if e.ID == uuid.Nil {
		e.ID = uuid.Must(uuid.NewV7())
	}
	e.CreateTime = now()
	e.UpdateTime = e.CreateTime

	_, err := insert(ctx, c.driver, execution.Table, execution.Columns, []any{
		e.ID,
		e.CreateTime,
		e.UpdateTime,
		e.Input,
		e.Output,
		string(e.Status),
		e.Error,
		e.InputTokens,
		e.OutputTokens,
		e.Cost.String(),
		nil,
		nil,
		e.AgentID,
		e.UserID,
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

type ExecutionUpdateOne struct {
	driver   dialect.Driver
	id       uuid.UUID
	mutation *mutation
}

func (u *ExecutionUpdateOne) SetStatus(v types.ExecutionStatus) *ExecutionUpdateOne {
	u.mutation.set(execution.FieldStatus, string(v))
	return u
}

func (u *ExecutionUpdateOne) SetOutput(v string) *ExecutionUpdateOne {
	u.mutation.set(execution.FieldOutput, v)
	return u
}

func (u *ExecutionUpdateOne) SetError(v string) *ExecutionUpdateOne {
	u.mutation.set(execution.FieldError, v)
	return u
}

func (u *ExecutionUpdateOne) SetInputTokens(v int64) *ExecutionUpdateOne {
	u.mutation.set(execution.FieldInputTokens, v)
	return u
}

func (u *ExecutionUpdateOne) SetOutputTokens(v int64) *ExecutionUpdateOne {
	u.mutation.set(execution.FieldOutputTokens, v)
	return u
}

func (u *ExecutionUpdateOne) SetCost(v decimal.Decimal) *ExecutionUpdateOne {
	u.mutation.set(execution.FieldCost, v.String())
	return u
}

func (u *ExecutionUpdateOne) SetStartedAt(t time.Time) *ExecutionUpdateOne {
	u.mutation.set(execution.FieldStartedAt, t.UTC())
	return u
}

func (u *ExecutionUpdateOne) SetCompletedAt(t time.Time) *ExecutionUpdateOne {
	u.mutation.set(execution.FieldCompletedAt, t.UTC())
	return u
}

func (u *ExecutionUpdateOne) Save(ctx context.Context) (*Execution, error) {
	if err := updateOne(ctx, u.driver, "execution", execution.Table, execution.FieldID, u.id, u.mutation); err != nil {
		return nil, err
	}
	return (&ExecutionClient{driver: u.driver}).Get(ctx, u.id)
}

// ExecutionEvent is one trace event recorded while an execution runs.
type ExecutionEvent struct {
	ID          int                      `json:"id,omitempty"`
	CreateTime  time.Time                `json:"create_time,omitempty"`
	Sequence    int                      `json:"sequence"`
	EventType   types.ExecutionEventType `json:"event_type,omitempty"`
	Payload     map[string]any           `json:"payload,omitempty"`
	ExecutionID uuid.UUID                `json:"execution_id,omitempty"`
}

// AddEvent appends an event to the execution trace. The sequence number is
// assigned from the current maximum so events stay ordered per execution.
func (c *ExecutionClient) AddEvent(ctx context.Context, executionID uuid.UUID, eventType types.ExecutionEventType, payload map[string]any) (*ExecutionEvent, error) {
	b := builder(c.driver)
	t := b.Table(executionevent.Table)
	seqQuery, seqArgs := b.Select("COALESCE(MAX(" + executionevent.FieldSequence + "), 0)").
		From(t).
		Where(entsql.EQ(executionevent.FieldExecutionID, executionID)).
		Query()

	var last int
	err := queryRows(ctx, c.driver, seqQuery, seqArgs, func(rows *entsql.Rows) error {
		return rows.Scan(&last)
	})
	if err != nil {
		return nil, err
	}

	encoded, err := encodeJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("memory: encoding event payload: %w", err)
	}

	event := &ExecutionEvent{
		CreateTime:  now(),
		Sequence:    last + 1,
		EventType:   eventType,
		Payload:     payload,
		ExecutionID: executionID,
	}
	res, err := insert(ctx, c.driver, executionevent.Table, executionevent.Columns[1:], []any{
		event.CreateTime,
		event.Sequence,
		string(event.EventType),
		encoded,
		event.ExecutionID,
	})
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("memory: reading event id: %w", err)
	}
	event.ID = int(id)
	return event, nil
}

// Events returns the trace of an execution ordered by sequence.
func (c *ExecutionClient) Events(ctx context.Context, executionID uuid.UUID) ([]*ExecutionEvent, error) {
	b := builder(c.driver)
	t := b.Table(executionevent.Table)
	query, args := b.Select(t.Columns(executionevent.Columns...)...).
		From(t).
		Where(entsql.EQ(t.C(executionevent.FieldExecutionID), executionID)).
		OrderBy(entsql.Asc(t.C(executionevent.FieldSequence))).
		Query()

	var events []*ExecutionEvent
	err := queryRows(ctx, c.driver, query, args, func(rows *entsql.Rows) error {
		e := &ExecutionEvent{}
		var (
			eventType string
			payload   stdsql.NullString
		)
		if err := rows.Scan(&e.ID, &e.CreateTime, &e.Sequence, &eventType, &payload, &e.ExecutionID); err != nil {
			return err
		}
		e.EventType = types.ExecutionEventType(eventType)
		if payload.Valid && payload.String != "" {
			if err := json.Unmarshal([]byte(payload.String), &e.Payload); err != nil {
				return fmt.Errorf("memory: decoding event payload: %w", err)
			}
		}
		events = append(events, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}
