package memory

import (
	"context"
	stdsql "database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/deepagents/control/backend/memory/predicate"
	"github.com/deepagents/control/backend/memory/schema/types"
	"github.com/deepagents/control/backend/memory/tool"
	"github.com/google/uuid"
)

type Tool struct {
	ID          uuid.UUID      `json:"id,omitempty"`
	CreateTime  time.Time      `json:"create_time,omitempty"`
	UpdateTime  time.Time      `json:"update_time,omitempty"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	ToolType    types.ToolType `json:"tool_type,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
	// Credentials holds the encrypted credential blob.
	Credentials []byte    `json:"-"`
	IsPublic    bool      `json:"is_public,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id,omitempty"`
}

func scanTool(rows *entsql.Rows) (*Tool, error) {
	t := &Tool{}
	var (
		toolType string
		config   stdsql.NullString
	)
	err := rows.Scan(
		&t.ID,
		&t.CreateTime,
		&t.UpdateTime,
		&t.Name,
		&t.Description,
		&toolType,
		&config,
		&t.Credentials,
		&t.IsPublic,
		&t.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	t.ToolType = types.ToolType(toolType)
	if config.Valid && config.String != "" {
		if err := json.Unmarshal([]byte(config.String), &t.Config); err != nil {
			return nil, fmt.Errorf("memory: decoding tool config: %w", err)
		}
	}
	return t, nil
}

func encodeJSON(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

type ToolClient struct {
	driver dialect.Driver
}

func (c *ToolClient) Create() *ToolCreate {
	return &ToolCreate{driver: c.driver, tool: &Tool{ToolType: types.ToolTypeFunction}}
}

func (c *ToolClient) Query() *ToolQuery {
	return &ToolQuery{query[predicate.Tool, Tool]{
		driver:  c.driver,
		label:   "tool",
		table:   tool.Table,
		columns: tool.Columns,
		scan:    scanTool,
	}}
}

func (c *ToolClient) Get(ctx context.Context, id uuid.UUID) (*Tool, error) {
	return c.Query().Where(tool.ID(id)).First(ctx)
}

func (c *ToolClient) UpdateOneID(id uuid.UUID) *ToolUpdateOne {
	return &ToolUpdateOne{driver: c.driver, id: id, mutation: &mutation{}}
}

func (c *ToolClient) DeleteOneID(id uuid.UUID) *DeleteOne {
	return &DeleteOne{driver: c.driver, label: "tool", table: tool.Table, pred: entsql.EQ(tool.FieldID, id)}
}

type ToolQuery struct {
	query[predicate.Tool, Tool]
}

func (q *ToolQuery) Where(ps ...predicate.Tool) *ToolQuery {
	q.where(ps...)
	return q
}

func (q *ToolQuery) Limit(n int) *ToolQuery {
	q.limit = n
	return q
}

func (q *ToolQuery) Offset(n int) *ToolQuery {
	q.offset = n
	return q
}

func (q *ToolQuery) OrderByName() *ToolQuery {
	q.order = append(q.order, func(s *entsql.Selector) {
		s.OrderBy(entsql.Asc(s.C(tool.FieldName)), entsql.Asc(s.C(tool.FieldID)))
	})
	return q
}

type ToolCreate struct {
	driver dialect.Driver
	tool   *Tool
}

func (c *ToolCreate) SetID(id uuid.UUID) *ToolCreate {
	c.tool.ID = id
	return c
}

func (c *ToolCreate) SetName(v string) *ToolCreate {
	c.tool.Name = v
	return c
}

func (c *ToolCreate) SetDescription(v string) *ToolCreate {
	c.tool.Description = v
	return c
}

func (c *ToolCreate) SetToolType(v types.ToolType) *ToolCreate {
	c.tool.ToolType = v
	return c
}

func (c *ToolCreate) SetConfig(v map[string]any) *ToolCreate {
	c.tool.Config = v
	return c
}

func (c *ToolCreate) SetCredentials(v []byte) *ToolCreate {
	c.tool.Credentials = v
	return c
}

func (c *ToolCreate) SetIsPublic(v bool) *ToolCreate {
	c.tool.IsPublic = v
	return c
}

func (c *ToolCreate) SetOwnerID(id uuid.UUID) *ToolCreate {
	c.tool.OwnerID = id
	return c
}

func (c *ToolCreate) Save(ctx context.Context) (*Tool, error) {
	t := *c.tool
	if t.ID == uuid.Nil {
		t.ID = uuid.Must(uuid.NewV7())
	}
	t.CreateTime = now()
	t.UpdateTime = t.CreateTime

	config, err := encodeJSON(t.Config)
	if err != nil {
		return nil, fmt.Errorf("memory: encoding tool config: %w", err)
	}

	_, err = insert(ctx, c.driver, tool.Table, tool.Columns, []any{
		t.ID,
		t.CreateTime,
		t.UpdateTime,
		t.Name,
		t.Description,
		string(t.ToolType),
		config,
		t.Credentials,
		t.IsPublic,
		t.OwnerID,
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type ToolUpdateOne struct {
	driver   dialect.Driver
	id       uuid.UUID
	mutation *mutation
	err      error
}

func (u *ToolUpdateOne) SetName(v string) *ToolUpdateOne {
	u.mutation.set(tool.FieldName, v)
	return u
}

func (u *ToolUpdateOne) SetDescription(v string) *ToolUpdateOne {
	u.mutation.set(tool.FieldDescription, v)
	return u
}

func (u *ToolUpdateOne) SetToolType(v types.ToolType) *ToolUpdateOne {
	u.mutation.set(tool.FieldToolType, string(v))
	return u
}

func (u *ToolUpdateOne) SetConfig(v map[string]any) *ToolUpdateOne {
	config, err := encodeJSON(v)
	if err != nil {
		u.err = fmt.Errorf("memory: encoding tool config: %w", err)
		return u
	}
	u.mutation.set(tool.FieldConfig, config)
	return u
}

func (u *ToolUpdateOne) SetCredentials(v []byte) *ToolUpdateOne {
	u.mutation.set(tool.FieldCredentials, v)
	return u
}

func (u *ToolUpdateOne) ClearCredentials() *ToolUpdateOne {
	u.mutation.set(tool.FieldCredentials, nil)
	return u
}

func (u *ToolUpdateOne) SetIsPublic(v bool) *ToolUpdateOne {
	u.mutation.set(tool.FieldIsPublic, v)
	return u
}

func (u *ToolUpdateOne) Save(ctx context.Context) (*Tool, error) {
	if u.err != nil {
		return nil, u.err
	}
	if err := updateOne(ctx, u.driver, "tool", tool.Table, tool.FieldID, u.id, u.mutation); err != nil {
		return nil, err
	}
	return (&ToolClient{driver: u.driver}).Get(ctx, u.id)
}
