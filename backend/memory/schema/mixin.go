package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
	"github.com/google/uuid"
)

// AgentMixin adds an indexed agent_id column to rows that belong to an agent.
type AgentMixin struct {
	mixin.Schema
}

func (AgentMixin) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("agent_id", uuid.UUID{}).Immutable(),
	}
}

func (AgentMixin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("agent_id"),
	}
}

type OwnerMixin struct {
	mixin.Schema
}

func (OwnerMixin) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("owner_id", uuid.UUID{}).Immutable(),
	}
}
