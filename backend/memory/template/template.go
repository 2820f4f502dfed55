package template

import (
	"entgo.io/ent/dialect/sql"
	"github.com/deepagents/control/backend/memory/predicate"
	"github.com/google/uuid"
)

const (
	Table = "templates"

	FieldID          = "id"
	FieldCreateTime  = "create_time"
	FieldUpdateTime  = "update_time"
	FieldName        = "name"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldConfig      = "config"
	FieldIsPublic    = "is_public"
	FieldOwnerID     = "owner_id"
)

// Columns holds all SQL columns for template fields.
var Columns = []string{
	FieldID,
	FieldCreateTime,
	FieldUpdateTime,
	FieldName,
	FieldDescription,
	FieldCategory,
	FieldConfig,
	FieldIsPublic,
	FieldOwnerID,
}

func ID(id uuid.UUID) predicate.Template {
	return predicate.Template(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldID), id))
	})
}

func Category(v string) predicate.Template {
	return predicate.Template(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldCategory), v))
	})
}

// VisibleTo matches templates owned by the user or shared publicly.
func VisibleTo(owner uuid.UUID) predicate.Template {
	return predicate.Template(func(s *sql.Selector) {
		s.Where(sql.Or(sql.EQ(s.C(FieldOwnerID), owner), sql.EQ(s.C(FieldIsPublic), true)))
	})
}
