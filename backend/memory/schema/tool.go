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

type Tool struct {
	ent.Schema
}

func (Tool) Mixin() []ent.Mixin {
	return []ent.Mixin{
		mixin.Time{},
		OwnerMixin{},
	}
}

func (Tool) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Unique().Immutable(),
		field.String("name").NotEmpty(),
		field.String("description").Default(""),
		field.String("tool_type").GoType(types.ToolType("")),
		field.JSON("config", map[string]any{}).Optional(),
		// AEAD ciphertext bound to the tool id.
		field.Bytes("credentials").Optional().Sensitive(),
		field.Bool("is_public").Default(false),
	}
}

func (Tool) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("owner", User.Type).Ref("tools").Field("owner_id").Unique().Required().Immutable(),
		edge.From("agents", Agent.Type).Ref("tools"),
	}
}

func (Tool) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner_id", "name").Unique(),
	}
}
