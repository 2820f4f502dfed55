package user

import (
	"entgo.io/ent/dialect/sql"
	"github.com/deepagents/control/backend/memory/predicate"
	"github.com/google/uuid"
)

const (
	Table = "users"

	FieldID             = "id"
	FieldCreateTime     = "create_time"
	FieldUpdateTime     = "update_time"
	FieldEmail          = "email"
	FieldUsername       = "username"
	FieldHashedPassword = "hashed_password"
	FieldFullName       = "full_name"
	FieldIsActive       = "is_active"
	FieldIsSuperuser    = "is_superuser"
)

// Columns holds all SQL columns for user fields.
var Columns = []string{
	FieldID,
	FieldCreateTime,
	FieldUpdateTime,
	FieldEmail,
	FieldUsername,
	FieldHashedPassword,
	FieldFullName,
	FieldIsActive,
	FieldIsSuperuser,
}

func ID(id uuid.UUID) predicate.User {
	return predicate.User(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldID), id))
	})
}

func Email(v string) predicate.User {
	return predicate.User(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldEmail), v))
	})
}

func Username(v string) predicate.User {
	return predicate.User(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldUsername), v))
	})
}

// UsernameOrEmail matches users that log in with v as their username or email.
func UsernameOrEmail(v string) predicate.User {
	return predicate.User(func(s *sql.Selector) {
		s.Where(sql.Or(sql.EQ(s.C(FieldUsername), v), sql.EQ(s.C(FieldEmail), v)))
	})
}
