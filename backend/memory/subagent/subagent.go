package subagent

import (
	"entgo.io/ent/dialect/sql"
	"github.com/deepagents/control/backend/memory/predicate"
	"github.com/google/uuid"
)

const (
	Table = "agent_subagents"

	FieldID               = "id"
	FieldCreateTime       = "create_time"
	FieldUpdateTime       = "update_time"
	FieldDelegationPrompt = "delegation_prompt"
	FieldPriority         = "priority"
	FieldAgentID          = "agent_id"
	FieldSubagentID       = "subagent_id"
)

// Columns holds all SQL columns for subagent fields.
var Columns = []string{
	FieldID,
	FieldCreateTime,
	FieldUpdateTime,
	FieldDelegationPrompt,
	FieldPriority,
	FieldAgentID,
	FieldSubagentID,
}

func AgentID(id uuid.UUID) predicate.Subagent {
	return predicate.Subagent(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldAgentID), id))
	})
}

func AgentIDIn(ids ...uuid.UUID) predicate.Subagent {
	return predicate.Subagent(func(s *sql.Selector) {
		v := make([]any, len(ids))
		for i := range ids {
			v[i] = ids[i]
		}
		s.Where(sql.In(s.C(FieldAgentID), v...))
	})
}

func SubagentID(id uuid.UUID) predicate.Subagent {
	return predicate.Subagent(func(s *sql.Selector) {
		s.Where(sql.EQ(s.C(FieldSubagentID), id))
	})
}

// Edge matches the single edge parent -> child.
func Edge(parent, child uuid.UUID) predicate.Subagent {
	return predicate.Subagent(func(s *sql.Selector) {
		s.Where(sql.And(
			sql.EQ(s.C(FieldAgentID), parent),
			sql.EQ(s.C(FieldSubagentID), child),
		))
	})
}

// ByPriority orders edges by ascending priority, then by creation order.
func ByPriority() func(*sql.Selector) {
	return func(s *sql.Selector) {
		s.OrderBy(sql.Asc(s.C(FieldPriority)), sql.Asc(s.C(FieldID)))
	}
}
