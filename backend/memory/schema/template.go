package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/mixin"
	"github.com/deepagents/control/backend/memory/schema/types"
	"github.com/google/uuid"
)

type Template struct {
	ent.Schema
}

func (Template) Mixin() []ent.Mixin {
	return []ent.Mixin{
		mixin.Time{},
		OwnerMixin{},
	}
}

func (Template) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Unique().Immutable(),
		field.String("name").NotEmpty(),
		field.String("description").Default(""),
		field.String("category").Default(""),
		field.JSON("config", types.TemplateConfig{}),
		field.Bool("is_public").Default(false),
	}
}

func (Template) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("owner", User.Type).Ref("templates").Field("owner_id").Unique().Required().Immutable(),
	}
}
