package execution

import (
	"entgo.io/ent/dialect/sql"
	"github.com/deepagents/control/backend/memory/predicate"
	"github.com/deepagents/control/backend/memory/schema/types"
	"github.com/google/uuid"
)

const (
	Table = "executions"

	FieldID           = "id"
	FieldCreateTime   = "create_time"
	FieldUpdateTime   = "update_time"
	FieldInput        = "input"
	FieldOutput       = "output"
	FieldStatus       = "status"
	FieldError        = "error"
	FieldInputTokens  = "input_tokens"
	FieldOutputTokens = "output_tokens"
	FieldCost         = "cost"
	FieldStartedAt    = "started_at"
	FieldCompletedAt  = "completed_at"
	FieldAgentID      = "agent_id"
	FieldUserID       = "user_id"
)

// Columns holds all SQL columns for execution fields.
var Columns = []string{
	FieldID,
	FieldCreateTime,
	FieldUpdateTime,
	FieldInput,
	FieldOutput,
	FieldStatus,
	FieldError,
	FieldInputTokens,
	FieldOutputTokens,
	FieldCost,
	FieldStartedAt,
	FieldCompletedAt,
	FieldAgentID,
	FieldUserID,
}

func ID(id uuid.UUID) predicate.Execution {
	return predicate.Execution(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldID), id))
	})
}

func AgentID(id uuid.UUID) predicate.Execution {
	return predicate.Execution(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldAgentID), id))
	})
}

func UserID(id uuid.UUID) predicate.Execution {
	return predicate.Execution(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldUserID), id))
	})
}

func Status(v types.ExecutionStatus) predicate.Execution {
	return predicate.Execution(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldStatus), string(v)))
	})
}
