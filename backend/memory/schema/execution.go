package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
	"github.com/deepagents/control/backend/memory/schema/types"
	"github.com/google/uuid"
)

type Execution struct {
	ent.Schema
}

func (Execution) Mixin() []ent.Mixin {
	return []ent.Mixin{
		mixin.Time{},
		AgentMixin{},
	}
}

func (Execution) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Unique().Immutable(),
		field.String("input"),
		field.String("output").Default(""),
		field.String("status").GoType(types.ExecutionStatus("")),
		field.String("error").Default(""),
		field.Int64("input_tokens").Default(0),
		field.Int64("output_tokens").Default(0),
		// Decimal string, see shopspring/decimal.
		field.String("cost").Default("0"),
		field.Time("started_at").Optional().Nillable(),
		field.Time("completed_at").Optional().Nillable(),
		field.UUID("user_id", uuid.UUID{}).Immutable(),
	}
}

func (Execution) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("agent", Agent.Type).Ref("executions").Field("agent_id").Unique().Required().Immutable(),
		edge.From("user", User.Type).Ref("executions").Field("user_id").Unique().Required().Immutable(),
		edge.To("events", ExecutionEvent.Type),
	}
}

func (Execution) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id"),
		index.Fields("status"),
	}
}

type ExecutionEvent struct {
	ent.Schema
}

func (ExecutionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{
		mixin.CreateTime{},
	}
}

func (ExecutionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.Int("sequence"),
		field.String("event_type").GoType(types.ExecutionEventType("")),
		field.JSON("payload", map[string]any{}).Optional(),
		field.UUID("execution_id", uuid.UUID{}).Immutable(),
	}
}

func (ExecutionEvent) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("execution", Execution.Type).Ref("events").Field("execution_id").Unique().Required().Immutable(),
	}
}

func (ExecutionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("execution_id", "sequence").Unique(),
	}
}
