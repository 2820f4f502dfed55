package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
	"github.com/google/uuid"
)

type Agent struct {
	ent.Schema
}

func (Agent) Mixin() []ent.Mixin {
	return []ent.Mixin{
		mixin.Time{},
		OwnerMixin{},
	}
}

func (Agent) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Unique().Immutable(),
		field.String("name").NotEmpty(),
		field.String("description").Default(""),
		field.String("instructions").Default(""),
		field.String("model_name").NotEmpty(),
		field.Float("temperature").Default(0.7).Range(0, 2),
		field.Int("max_tokens").Default(4096).Positive(),
		field.Bool("is_active").Default(true),
		// Set when the agent is soft deleted.
		field.Time("delete_time").Optional().Nillable(),
	}
}

func (Agent) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("owner", User.Type).Ref("agents").Field("owner_id").Unique().Required().Immutable(),
		edge.To("delegates", Agent.Type).
			Through("subagents", Subagent.Type).
			From("delegators"),
		edge.To("tools", Tool.Type).
			StorageKey(edge.Table("agent_tools"), edge.Columns("agent_id", "tool_id")),
		edge.To("executions", Execution.Type),
	}
}

func (Agent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner_id"),
	}
}
