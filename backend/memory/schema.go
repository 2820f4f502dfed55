package memory

import (
	"context"
	"fmt"
	"io"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// The tables below are the migration form of the ent schemas in
// backend/memory/schema. TestTablesMatchSchema keeps the two in sync.
var (
	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "create_time", Type: field.TypeTime},
		{Name: "update_time", Type: field.TypeTime},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "username", Type: field.TypeString, Unique: true},
		{Name: "hashed_password", Type: field.TypeString},
		{Name: "full_name", Type: field.TypeString, Default: ""},
		{Name: "is_active", Type: field.TypeBool, Default: true},
		{Name: "is_superuser", Type: field.TypeBool, Default: false},
	}
	UsersTable = &schema.Table{
		Name:       "users",
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}

	// AgentsColumns holds the columns for the "agents" table.
	AgentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "create_time", Type: field.TypeTime},
		{Name: "update_time", Type: field.TypeTime},
		{Name: "name", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "instructions", Type: field.TypeString, Default: ""},
		{Name: "model_name", Type: field.TypeString},
		{Name: "temperature", Type: field.TypeFloat64, Default: 0.7},
		{Name: "max_tokens", Type: field.TypeInt, Default: 4096},
		{Name: "is_active", Type: field.TypeBool, Default: true},
		{Name: "delete_time", Type: field.TypeTime, Nullable: true},
		{Name: "owner_id", Type: field.TypeUUID},
	}
	AgentsTable = &schema.Table{
		Name:       "agents",
		Columns:    AgentsColumns,
		PrimaryKey: []*schema.Column{AgentsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "agents_users_agents",
				Columns:    []*schema.Column{AgentsColumns[11]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "agent_owner_id",
				Unique:  false,
				Columns: []*schema.Column{AgentsColumns[11]},
			},
		},
	}

	// AgentSubagentsColumns holds the columns for the "agent_subagents" table.
	// Each row is one delegation edge agent_id -> subagent_id.
	AgentSubagentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "create_time", Type: field.TypeTime},
		{Name: "update_time", Type: field.TypeTime},
		{Name: "delegation_prompt", Type: field.TypeString, Default: ""},
		{Name: "priority", Type: field.TypeInt, Default: 0},
		{Name: "agent_id", Type: field.TypeUUID},
		{Name: "subagent_id", Type: field.TypeUUID},
	}
	AgentSubagentsTable = &schema.Table{
		Name:       "agent_subagents",
		Columns:    AgentSubagentsColumns,
		PrimaryKey: []*schema.Column{AgentSubagentsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "agent_subagents_agents_delegates",
				Columns:    []*schema.Column{AgentSubagentsColumns[5]},
				RefColumns: []*schema.Column{AgentsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "agent_subagents_agents_delegators",
				Columns:    []*schema.Column{AgentSubagentsColumns[6]},
				RefColumns: []*schema.Column{AgentsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "agentsubagent_agent_id_subagent_id",
				Unique:  true,
				Columns: []*schema.Column{AgentSubagentsColumns[5], AgentSubagentsColumns[6]},
			},
			{
				Name:    "agentsubagent_agent_id",
				Unique:  false,
				Columns: []*schema.Column{AgentSubagentsColumns[5]},
			},
			{
				Name:    "agentsubagent_agent_id_priority",
				Unique:  false,
				Columns: []*schema.Column{AgentSubagentsColumns[5], AgentSubagentsColumns[4]},
			},
		},
	}

	// ToolsColumns holds the columns for the "tools" table.
	ToolsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "create_time", Type: field.TypeTime},
		{Name: "update_time", Type: field.TypeTime},
		{Name: "name", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "tool_type", Type: field.TypeString},
		{Name: "config", Type: field.TypeJSON, Nullable: true},
		{Name: "credentials", Type: field.TypeBytes, Nullable: true},
		{Name: "is_public", Type: field.TypeBool, Default: false},
		{Name: "owner_id", Type: field.TypeUUID},
	}
	ToolsTable = &schema.Table{
		Name:       "tools",
		Columns:    ToolsColumns,
		PrimaryKey: []*schema.Column{ToolsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "tools_users_tools",
				Columns:    []*schema.Column{ToolsColumns[9]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "tool_owner_id_name",
				Unique:  true,
				Columns: []*schema.Column{ToolsColumns[9], ToolsColumns[3]},
			},
		},
	}

	// AgentToolsColumns holds the columns for the "agent_tools" join table.
	AgentToolsColumns = []*schema.Column{
		{Name: "agent_id", Type: field.TypeUUID},
		{Name: "tool_id", Type: field.TypeUUID},
	}
	AgentToolsTable = &schema.Table{
		Name:       "agent_tools",
		Columns:    AgentToolsColumns,
		PrimaryKey: []*schema.Column{AgentToolsColumns[0], AgentToolsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "agent_tools_agent_id",
				Columns:    []*schema.Column{AgentToolsColumns[0]},
				RefColumns: []*schema.Column{AgentsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "agent_tools_tool_id",
				Columns:    []*schema.Column{AgentToolsColumns[1]},
				RefColumns: []*schema.Column{ToolsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// TemplatesColumns holds the columns for the "templates" table.
	TemplatesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "create_time", Type: field.TypeTime},
		{Name: "update_time", Type: field.TypeTime},
		{Name: "name", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "config", Type: field.TypeJSON},
		{Name: "is_public", Type: field.TypeBool, Default: false},
		{Name: "owner_id", Type: field.TypeUUID},
	}
	TemplatesTable = &schema.Table{
		Name:       "templates",
		Columns:    TemplatesColumns,
		PrimaryKey: []*schema.Column{TemplatesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "templates_users_templates",
				Columns:    []*schema.Column{TemplatesColumns[8]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// ExecutionsColumns holds the columns for the "executions" table.
	ExecutionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "create_time", Type: field.TypeTime},
		{Name: "update_time", Type: field.TypeTime},
		{Name: "input", Type: field.TypeString},
		{Name: "output", Type: field.TypeString, Default: ""},
		{Name: "status", Type: field.TypeString},
		{Name: "error", Type: field.TypeString, Default: ""},
		{Name: "input_tokens", Type: field.TypeInt64, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt64, Default: 0},
		{Name: "cost", Type: field.TypeString, Default: "0"},
		{Name: "started_at", Type: field.TypeTime, Nullable: true},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
		{Name: "agent_id", Type: field.TypeUUID},
		{Name: "user_id", Type: field.TypeUUID},
	}
	ExecutionsTable = &schema.Table{
		Name:       "executions",
		Columns:    ExecutionsColumns,
		PrimaryKey: []*schema.Column{ExecutionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "executions_agents_executions",
				Columns:    []*schema.Column{ExecutionsColumns[12]},
				RefColumns: []*schema.Column{AgentsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "executions_users_executions",
				Columns:    []*schema.Column{ExecutionsColumns[13]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "execution_agent_id",
				Columns: []*schema.Column{ExecutionsColumns[12]},
			},
			{
				Name:    "execution_user_id",
				Columns: []*schema.Column{ExecutionsColumns[13]},
			},
			{
				Name:    "execution_status",
				Columns: []*schema.Column{ExecutionsColumns[5]},
			},
		},
	}

	// ExecutionEventsColumns holds the columns for the "execution_events" table.
	ExecutionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "create_time", Type: field.TypeTime},
		{Name: "sequence", Type: field.TypeInt},
		{Name: "event_type", Type: field.TypeString},
		{Name: "payload", Type: field.TypeJSON, Nullable: true},
		{Name: "execution_id", Type: field.TypeUUID},
	}
	ExecutionEventsTable = &schema.Table{
		Name:       "execution_events",
		Columns:    ExecutionEventsColumns,
		PrimaryKey: []*schema.Column{ExecutionEventsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "execution_events_executions_events",
				Columns:    []*schema.Column{ExecutionEventsColumns[5]},
				RefColumns: []*schema.Column{ExecutionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "executionevent_execution_id_sequence",
				Unique:  true,
				Columns: []*schema.Column{ExecutionEventsColumns[5], ExecutionEventsColumns[2]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		UsersTable,
		AgentsTable,
		AgentSubagentsTable,
		ToolsTable,
		AgentToolsTable,
		TemplatesTable,
		ExecutionsTable,
		ExecutionEventsTable,
	}
)

func init() {
	AgentsTable.ForeignKeys[0].RefTable = UsersTable
	AgentSubagentsTable.ForeignKeys[0].RefTable = AgentsTable
	AgentSubagentsTable.ForeignKeys[1].RefTable = AgentsTable
	ToolsTable.ForeignKeys[0].RefTable = UsersTable
	AgentToolsTable.ForeignKeys[0].RefTable = AgentsTable
	AgentToolsTable.ForeignKeys[1].RefTable = ToolsTable
	TemplatesTable.ForeignKeys[0].RefTable = UsersTable
	ExecutionsTable.ForeignKeys[0].RefTable = AgentsTable
	ExecutionsTable.ForeignKeys[1].RefTable = UsersTable
	ExecutionEventsTable.ForeignKeys[0].RefTable = ExecutionsTable
}

// Schema runs the migrations of the relational store.
type Schema struct {
	driver dialect.Driver
}

// Create creates all tables and indexes that do not exist yet.
func (s *Schema) Create(ctx context.Context, opts ...schema.MigrateOption) error {
	migrate, err := schema.NewMigrate(s.driver, opts...)
	if err != nil {
		return fmt.Errorf("memory/migrate: %w", err)
	}
	return migrate.Create(ctx, Tables...)
}

// WriteTo writes the statements Create would execute against the current
// database to w instead of running them.
func (s *Schema) WriteTo(ctx context.Context, w io.Writer, opts ...schema.MigrateOption) error {
	migrate, err := schema.NewMigrate(&schema.WriteDriver{Writer: w, Driver: s.driver}, opts...)
	if err != nil {
		return fmt.Errorf("memory/migrate: %w", err)
	}
	return migrate.Create(ctx, Tables...)
}
