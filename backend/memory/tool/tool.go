package tool

import (
	"entgo.io/ent/dialect/sql"
	"github.com/deepagents/control/backend/memory/predicate"
	"github.com/google/uuid"
)

const (
	Table = "tools"

	FieldID          = "id"
	FieldCreateTime  = "create_time"
	FieldUpdateTime  = "update_time"
	FieldName        = "name"
	FieldDescription = "description"
	FieldToolType    = "tool_type"
	FieldConfig      = "config"
	FieldCredentials = "credentials"
	FieldIsPublic    = "is_public"
	FieldOwnerID     = "owner_id"
)

// Columns holds all SQL columns for tool fields.
var Columns = []string{
	FieldID,
	FieldCreateTime,
	FieldUpdateTime,
	FieldName,
	FieldDescription,
	FieldToolType,
	FieldConfig,
	FieldCredentials,
	FieldIsPublic,
	FieldOwnerID,
}

func ID(id uuid.UUID) predicate.Tool {
	return predicate.Tool(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldID), id))
	})
}

func IDIn(ids ...uuid.UUID) predicate.Tool {
	return predicate.Tool(func(s *sql.Selector) {
		v := make([]any, len(ids))
		for i := range ids {
			v[i] = ids[i]
		}
		s.Where(sql.In(s.C(FieldID), v...))
	})
}

func ToolType(v string) predicate.Tool {
	return predicate.Tool(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldToolType), v))
	})
}

// VisibleTo matches tools owned by the user or shared publicly.
func VisibleTo(owner uuid.UUID) predicate.Tool {
	return predicate.Tool(func(s *sql.Selector) {
		s.Where(sql.Or(sql.EQ(s.C(FieldOwnerID), owner), sql.EQ(s.C(FieldIsPublic), true)))
	})
}
