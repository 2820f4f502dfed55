package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/mixin"
	"github.com/google/uuid"
)

type User struct {
	ent.Schema
}

func (User) Mixin() []ent.Mixin {
	return []ent.Mixin{
		mixin.Time{},
	}
}

func (User) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Unique().Immutable(),
		field.String("email").NotEmpty().Unique(),
		field.String("username").NotEmpty().Unique(),
		field.String("hashed_password").Sensitive(),
		field.String("full_name").Default(""),
		field.Bool("is_active").Default(true),
		field.Bool("is_superuser").Default(false),
	}
}

func (User) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("agents", Agent.Type),
		edge.To("tools", Tool.Type),
		edge.To("templates", Template.Type),
		edge.To("executions", Execution.Type),
	}
}
