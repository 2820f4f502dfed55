package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
	"github.com/google/uuid"
)

// Subagent is the edge schema of Agent.delegates: agent_id delegates to
// subagent_id.
type Subagent struct {
	ent.Schema
}

func (Subagent) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Table("agent_subagents"),
	}
}

func (Subagent) Mixin() []ent.Mixin {
	return []ent.Mixin{
		mixin.Time{},
		AgentMixin{},
	}
}

func (Subagent) Fields() []ent.Field {
	return []ent.Field{
		field.String("delegation_prompt").Default(""),
		// Lower values are preferred.
		field.Int("priority").Default(0),
		field.UUID("subagent_id", uuid.UUID{}).Immutable(),
	}
}

func (Subagent) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("agent", Agent.Type).Field("agent_id").Unique().Required().Immutable(),
		edge.To("subagent", Agent.Type).Field("subagent_id").Unique().Required().Immutable(),
	}
}

func (Subagent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("agent_id", "subagent_id").Unique(),
		index.Fields("agent_id", "priority"),
	}
}
