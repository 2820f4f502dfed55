package predicate

import (
	"entgo.io/ent/dialect/sql"
)

// User is the predicate function for user builders.
type User func(*sql.Selector)

// Agent is the predicate function for agent builders.
type Agent func(*sql.Selector)

// Subagent is the predicate function for subagent builders.
type Subagent func(*sql.Selector)

// Tool is the predicate function for tool builders.
type Tool func(*sql.Selector)

// Template is the predicate function for template builders.
type Template func(*sql.Selector)

// Execution is the predicate function for execution builders.
type Execution func(*sql.Selector)
