package agent

import (
	"entgo.io/ent/dialect/sql"
	"github.com/deepagents/control/backend/memory/predicate"
	"github.com/google/uuid"
)

const (
	Table = "agents"
	// ToolsTable is the join table between agents and tools.
	ToolsTable = "agent_tools"

	FieldID           = "id"
	FieldCreateTime   = "create_time"
	FieldUpdateTime   = "update_time"
	FieldName         = "name"
	FieldDescription  = "description"
	FieldInstructions = "instructions"
	FieldModelName    = "model_name"
	FieldTemperature  = "temperature"
	FieldMaxTokens    = "max_tokens"
	FieldIsActive     = "is_active"
	FieldDeleteTime   = "delete_time"
	FieldOwnerID      = "owner_id"

	ToolsAgentColumn = "agent_id"
	ToolsToolColumn  = "tool_id"
)

// Columns holds all SQL columns for agent fields.
var Columns = []string{
	FieldID,
	FieldCreateTime,
	FieldUpdateTime,
	FieldName,
	FieldDescription,
	FieldInstructions,
	FieldModelName,
	FieldTemperature,
	FieldMaxTokens,
	FieldIsActive,
	FieldDeleteTime,
	FieldOwnerID,
}

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4096
	DefaultModelName   = "claude-sonnet-4"
)

func ID(id uuid.UUID) predicate.Agent {
	return predicate.Agent(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldID), id))
	})
}

func IDIn(ids ...uuid.UUID) predicate.Agent {
	return predicate.Agent(func(s *sql.Selector) {
		v := make([]any, len(ids))
		for i := range ids {
			v[i] = ids[i]
		}
		s.Where(sql.In(s.C(FieldID), v...))
	})
}

func OwnerID(id uuid.UUID) predicate.Agent {
	return predicate.Agent(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldOwnerID), id))
	})
}

func IsActive(v bool) predicate.Agent {
	return predicate.Agent(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldIsActive), v))
	})
}

func NameContains(v string) predicate.Agent {
	return predicate.Agent(func(s *sql.Selector) {
		s.Where(sql.Contains(s.C(FieldName), v))
	})
}

// NotDeleted excludes soft-deleted agents.
func NotDeleted() predicate.Agent {
	return predicate.Agent(func(s *sql.Selector) {
		s.Where(sql.IsNull(s.C(FieldDeleteTime)))
	})
}

func Deleted() predicate.Agent {
	return predicate.Agent(func(s *sql.Selector) {
		s.Where(sql.NotNull(s.C(FieldDeleteTime)))
	})
}
