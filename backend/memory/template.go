package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/deepagents/control/backend/memory/predicate"
	"github.com/deepagents/control/backend/memory/schema/types"
	"github.com/deepagents/control/backend/memory/template"
	"github.com/google/uuid"
)

type Template struct {
	ID          uuid.UUID            `json:"id,omitempty"`
	CreateTime  time.Time            `json:"create_time,omitempty"`
	UpdateTime  time.Time            `json:"update_time,omitempty"`
	Name        string               `json:"name,omitempty"`
	Description string               `json:"description,omitempty"`
	Category    string               `json:"category,omitempty"`
	Config      types.TemplateConfig `json:"config"`
	IsPublic    bool                 `json:"is_public,omitempty"`
	OwnerID     uuid.UUID            `json:"owner_id,omitempty"`
}

func scanTemplate(rows *entsql.Rows) (*Template, error) {
	t := &Template{}
	var config string
	err := rows.Scan(
		&t.ID,
		&t.CreateTime,
		&t.UpdateTime,
		&t.Name,
		&t.Description,
		&t.Category,
		&config,
		&t.IsPublic,
		&t.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(config), &t.Config); err != nil {
		return nil, fmt.Errorf("memory: decoding template config: %w", err)
	}
	return t, nil
}

type TemplateClient struct {
	driver dialect.Driver
}

func (c *TemplateClient) Create() *TemplateCreate {
	return &TemplateCreate{driver: c.driver, template: &Template{}}
}

func (c *TemplateClient) Query() *TemplateQuery {
	return &TemplateQuery{query[predicate.Template, Template]{
		driver:  c.driver,
		label:   "template",
		table:   template.Table,
		columns: template.Columns,
		scan:    scanTemplate,
	}}
}

func (c *TemplateClient) Get(ctx context.Context, id uuid.UUID) (*Template, error) {
	return c.Query().Where(template.ID(id)).First(ctx)
}

func (c *TemplateClient) UpdateOneID(id uuid.UUID) *TemplateUpdateOne {
	return &TemplateUpdateOne{driver: c.driver, id: id, mutation: &mutation{}}
}

func (c *TemplateClient) DeleteOneID(id uuid.UUID) *DeleteOne {
	return &DeleteOne{driver: c.driver, label: "template", table: template.Table, pred: entsql.EQ(template.FieldID, id)}
}

type TemplateQuery struct {
	query[predicate.Template, Template]
}

func (q *TemplateQuery) Where(ps ...predicate.Template) *TemplateQuery {
	q.where(ps...)
	return q
}

func (q *TemplateQuery) Limit(n int) *TemplateQuery {
	q.limit = n
	return q
}

func (q *TemplateQuery) Offset(n int) *TemplateQuery {
	q.offset = n
	return q
}

func (q *TemplateQuery) OrderByName() *TemplateQuery {
	q.order = append(q.order, func(s *entsql.Selector) {
		s.OrderBy(entsql.Asc(s.C(template.FieldName)), entsql.Asc(s.C(template.FieldID)))
	})
	return q
}

type TemplateCreate struct {
	driver   dialect.Driver
	template *Template
}

func (c *TemplateCreate) SetID(id uuid.UUID) *TemplateCreate {
	c.template.ID = id
	return c
}

func (c *TemplateCreate) SetName(v string) *TemplateCreate {
	c.template.Name = v
	return c
}

func (c *TemplateCreate) SetDescription(v string) *TemplateCreate {
	c.template.Description = v
	return c
}

func (c *TemplateCreate) SetCategory(v string) *TemplateCreate {
	c.template.Category = v
	return c
}

func (c *TemplateCreate) SetConfig(v types.TemplateConfig) *TemplateCreate {
	c.template.Config = v
	return c
}

func (c *TemplateCreate) SetIsPublic(v bool) *TemplateCreate {
	c.template.IsPublic = v
	return c
}

func (c *TemplateCreate) SetOwnerID(id uuid.UUID) *TemplateCreate {
	c.template.OwnerID = id
	return c
}

func (c *TemplateCreate) Save(ctx context.Context) (*Template, error) {
	t := *c.template
	if t.ID == uuid.Nil {
		t.ID = uuid.Must(uuid.NewV7())
	}
	t.CreateTime = now()
	t.UpdateTime = t.CreateTime

	config, err := encodeJSON(t.Config)
	if err != nil {
		return nil, fmt.Errorf("memory: encoding template config: %w", err)
	}

	_, err = insert(ctx, c.driver, template.Table, template.Columns, []any{
		t.ID,
		t.CreateTime,
		t.UpdateTime,
		t.Name,
		t.Description,
		t.Category,
		config,
		t.IsPublic,
		t.OwnerID,
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type TemplateUpdateOne struct {
	driver   dialect.Driver
	id       uuid.UUID
	mutation *mutation
	err      error
}

func (u *TemplateUpdateOne) SetName(v string) *TemplateUpdateOne {
	u.mutation.set(template.FieldName, v)
	return u
}

func (u *TemplateUpdateOne) SetDescription(v string) *TemplateUpdateOne {
	u.mutation.set(template.FieldDescription, v)
	return u
}

func (u *TemplateUpdateOne) SetCategory(v string) *TemplateUpdateOne {
	u.mutation.set(template.FieldCategory, v)
	return u
}

func (u *TemplateUpdateOne) SetConfig(v types.TemplateConfig) *TemplateUpdateOne {
	config, err := encodeJSON(v)
	if err != nil {
		u.err = fmt.Errorf("memory: encoding template config: %w", err)
		return u
	}
	u.mutation.set(template.FieldConfig, config)
	return u
}

func (u *TemplateUpdateOne) SetIsPublic(v bool) *TemplateUpdateOne {
	u.mutation.set(template.FieldIsPublic, v)
	return u
}

func (u *TemplateUpdateOne) Save(ctx context.Context) (*Template, error) {
	if u.err != nil {
		return nil, u.err
	}
	if err := updateOne(ctx, u.driver, "template", template.Table, template.FieldID, u.id, u.mutation); err != nil {
		return nil, err
	}
	return (&TemplateClient{driver: u.driver}).Get(ctx, u.id)
}
