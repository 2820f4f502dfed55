package test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/memory/schema/types"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	userID      = uuid.MustParse("0195fc02-59ef-7194-93d5-387400b068cb")
	userID2     = uuid.MustParse("01963a4e-62c7-7de8-8e7d-95a68b287927")
	agentID     = uuid.MustParse("0195fbbe-42e1-75fe-8e08-28758035ff95")
	agentID2    = uuid.MustParse("0195fd1c-04c3-7576-aae7-2409b325b350")
	agentID3    = uuid.MustParse("0195fbbe-adda-76cf-be67-9f1b64b50a4a")
	agentID4    = uuid.MustParse("01963a4f-efe4-713e-915a-da933983c193")
	toolID      = uuid.MustParse("0195fbbe-0be8-74b1-af7a-6e76e80e2462")
	toolID2     = uuid.MustParse("0195fd1c-2b8d-75c7-b30d-858e67825ac3")
	templateID  = uuid.MustParse("0195fbbd-757d-7db6-83c2-f556128b4586")
	executionID = uuid.MustParse("0195fd1c-58fc-7960-85ef-e05cf64db136")
)

func UserID() uuid.UUID {
	return userID
}

func UserID2() uuid.UUID {
	return userID2
}

func AgentID() uuid.UUID {
	return agentID
}

func AgentID2() uuid.UUID {
	return agentID2
}

func AgentID3() uuid.UUID {
	return agentID3
}

func AgentID4() uuid.UUID {
	return agentID4
}

func ToolID() uuid.UUID {
	return toolID
}

func ToolID2() uuid.UUID {
	return toolID2
}

func TemplateID() uuid.UUID {
	return templateID
}

func ExecutionID() uuid.UUID {
	return executionID
}

// NewDatabase opens a migrated SQLite database in a temporary directory that
// is removed when the test ends.
func NewDatabase(t testing.TB) *memory.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate",
		filepath.Join(t.TempDir(), "test.db"))

	db, err := memory.Open(context.Background(), dsn, memory.WithPingAttempts(1))
	if err != nil {
		t.Fatalf("failed opening database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if err := db.Schema.Create(context.Background()); err != nil {
		t.Fatalf("failed creating schema resources: %v", err)
	}
	return db
}

type entityBuilder struct {
	db *memory.Client
	t  testing.TB
}

func newEntityBuilder(t testing.TB, db *memory.Client) *entityBuilder {
	if t == nil {
		panic("testing.T is required")
	}

	if db == nil {
		t.Fatal("memory client is required")
	}

	return &entityBuilder{
		t:  t,
		db: db,
	}
}

type UserBuilder struct {
	*entityBuilder
	userID uuid.UUID

	username  string
	email     string
	password  string
	active    bool
	superuser bool
}

// UserPassword is the password of users created by UserBuilder.
const UserPassword = "correct-horse"

func NewUserBuilder(t testing.TB, db *memory.Client) *UserBuilder {
	return &UserBuilder{
		entityBuilder: newEntityBuilder(t, db),
		userID:        UserID(),
		username:      "ada",
		email:         "ada@example.com",
		password:      UserPassword,
		active:        true,
	}
}

func (b *UserBuilder) WithID(id uuid.UUID) *UserBuilder {
	b.userID = id
	return b
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	b.email = username + "@example.com"
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithActive(active bool) *UserBuilder {
	b.active = active
	return b
}

func (b *UserBuilder) WithSuperuser(superuser bool) *UserBuilder {
	b.superuser = superuser
	return b
}

func (b *UserBuilder) Build(ctx context.Context) *memory.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		b.t.Fatalf("failed to hash password: %v", err)
	}

	user, err := b.db.User.Create().
		SetID(b.userID).
		SetUsername(b.username).
		SetEmail(b.email).
		SetHashedPassword(string(hash)).
		SetIsActive(b.active).
		SetIsSuperuser(b.superuser).
		Save(ctx)

	if err != nil {
		b.t.Fatalf("failed to create user: %v", err)
	}

	return user
}

type AgentBuilder struct {
	*entityBuilder
	agentID uuid.UUID

	ownerID      uuid.UUID
	name         string
	description  string
	instructions string
	modelName    string
	active       bool
	toolIDs      []uuid.UUID
	deleted      bool
}

func NewAgentBuilder(t testing.TB, db *memory.Client, owner *memory.User) *AgentBuilder {
	if owner == nil {
		t.Fatal("owner is required")
	}

	return &AgentBuilder{
		entityBuilder: newEntityBuilder(t, db),
		agentID:       AgentID(),
		ownerID:       owner.ID,
		name:          "coder",
		description:   "Writes code",
		instructions:  "You are a careful software engineer.",
		modelName:     "claude-sonnet-4",
		active:        true,
	}
}

func (b *AgentBuilder) WithID(id uuid.UUID) *AgentBuilder {
	b.agentID = id
	return b
}

func (b *AgentBuilder) WithName(name string) *AgentBuilder {
	b.name = name
	return b
}

func (b *AgentBuilder) WithDescription(description string) *AgentBuilder {
	b.description = description
	return b
}

func (b *AgentBuilder) WithActive(active bool) *AgentBuilder {
	b.active = active
	return b
}

func (b *AgentBuilder) WithTools(tools ...*memory.Tool) *AgentBuilder {
	for _, tool := range tools {
		b.toolIDs = append(b.toolIDs, tool.ID)
	}
	return b
}

// WithDeleted soft deletes the agent after creating it.
func (b *AgentBuilder) WithDeleted(deleted bool) *AgentBuilder {
	b.deleted = deleted
	return b
}

func (b *AgentBuilder) Build(ctx context.Context) *memory.Agent {
	agent, err := memory.Transaction(ctx, b.db, func(tx *memory.Client) (*memory.Agent, error) {
		agent, err := tx.Agent.Create().
			SetID(b.agentID).
			SetOwnerID(b.ownerID).
			SetName(b.name).
			SetDescription(b.description).
			SetInstructions(b.instructions).
			SetModelName(b.modelName).
			SetIsActive(b.active).
			AddToolIDs(b.toolIDs...).
			Save(ctx)
		if err != nil || !b.deleted {
			return agent, err
		}
		return tx.Agent.UpdateOneID(agent.ID).SetDeleteTime(agent.CreateTime).Save(ctx)
	})

	if err != nil {
		b.t.Fatalf("failed to create agent: %v", err)
	}

	return agent
}

type SubagentBuilder struct {
	*entityBuilder

	parentID         uuid.UUID
	childID          uuid.UUID
	delegationPrompt string
	priority         int
}

func NewSubagentBuilder(t testing.TB, db *memory.Client, parent, child *memory.Agent) *SubagentBuilder {
	if parent == nil || child == nil {
		t.Fatal("parent and child agents are required")
	}

	return &SubagentBuilder{
		entityBuilder:    newEntityBuilder(t, db),
		parentID:         parent.ID,
		childID:          child.ID,
		delegationPrompt: "Delegate to " + child.Name,
	}
}

func (b *SubagentBuilder) WithDelegationPrompt(prompt string) *SubagentBuilder {
	b.delegationPrompt = prompt
	return b
}

func (b *SubagentBuilder) WithPriority(priority int) *SubagentBuilder {
	b.priority = priority
	return b
}

// Build inserts the edge directly, bypassing delegation checks.
func (b *SubagentBuilder) Build(ctx context.Context) *memory.Subagent {
	edge, err := b.db.Subagent.Create().
		SetAgentID(b.parentID).
		SetSubagentID(b.childID).
		SetDelegationPrompt(b.delegationPrompt).
		SetPriority(b.priority).
		Save(ctx)

	if err != nil {
		b.t.Fatalf("failed to create subagent: %v", err)
	}

	return edge
}

type ToolBuilder struct {
	*entityBuilder
	toolID uuid.UUID

	ownerID     uuid.UUID
	name        string
	description string
	toolType    types.ToolType
	config      map[string]any
	credentials []byte
	public      bool
}

func NewToolBuilder(t testing.TB, db *memory.Client, owner *memory.User) *ToolBuilder {
	if owner == nil {
		t.Fatal("owner is required")
	}

	return &ToolBuilder{
		entityBuilder: newEntityBuilder(t, db),
		toolID:        ToolID(),
		ownerID:       owner.ID,
		name:          "web_search",
		description:   "Searches the web",
		toolType:      types.ToolTypeBuiltin,
		config:        map[string]any{"max_results": float64(5)},
	}
}

func (b *ToolBuilder) WithID(id uuid.UUID) *ToolBuilder {
	b.toolID = id
	return b
}

func (b *ToolBuilder) WithName(name string) *ToolBuilder {
	b.name = name
	return b
}

func (b *ToolBuilder) WithType(toolType types.ToolType, config map[string]any) *ToolBuilder {
	b.toolType = toolType
	b.config = config
	return b
}

func (b *ToolBuilder) WithPublic(public bool) *ToolBuilder {
	b.public = public
	return b
}

func (b *ToolBuilder) WithCredentials(credentials []byte) *ToolBuilder {
	b.credentials = credentials
	return b
}

func (b *ToolBuilder) Build(ctx context.Context) *memory.Tool {
	tool, err := b.db.Tool.Create().
		SetID(b.toolID).
		SetOwnerID(b.ownerID).
		SetName(b.name).
		SetDescription(b.description).
		SetToolType(b.toolType).
		SetConfig(b.config).
		SetCredentials(b.credentials).
		SetIsPublic(b.public).
		Save(ctx)

	if err != nil {
		b.t.Fatalf("failed to create tool: %v", err)
	}

	return tool
}

type TemplateBuilder struct {
	*entityBuilder
	templateID uuid.UUID

	ownerID  uuid.UUID
	name     string
	category string
	config   types.TemplateConfig
	public   bool
}

func NewTemplateBuilder(t testing.TB, db *memory.Client, owner *memory.User) *TemplateBuilder {
	if owner == nil {
		t.Fatal("owner is required")
	}

	return &TemplateBuilder{
		entityBuilder: newEntityBuilder(t, db),
		templateID:    TemplateID(),
		ownerID:       owner.ID,
		name:          "researcher",
		category:      "research",
		config: types.TemplateConfig{
			Instructions: "Research the topic thoroughly.",
			ModelName:    "claude-sonnet-4",
			Temperature:  0.2,
			MaxTokens:    2048,
		},
	}
}

func (b *TemplateBuilder) WithID(id uuid.UUID) *TemplateBuilder {
	b.templateID = id
	return b
}

func (b *TemplateBuilder) WithName(name string) *TemplateBuilder {
	b.name = name
	return b
}

func (b *TemplateBuilder) WithPublic(public bool) *TemplateBuilder {
	b.public = public
	return b
}

func (b *TemplateBuilder) WithToolIDs(ids ...uuid.UUID) *TemplateBuilder {
	b.config.ToolIDs = ids
	return b
}

func (b *TemplateBuilder) Build(ctx context.Context) *memory.Template {
	template, err := b.db.Template.Create().
		SetID(b.templateID).
		SetOwnerID(b.ownerID).
		SetName(b.name).
		SetCategory(b.category).
		SetConfig(b.config).
		SetIsPublic(b.public).
		Save(ctx)

	if err != nil {
		b.t.Fatalf("failed to create template: %v", err)
	}

	return template
}

type ExecutionBuilder struct {
	*entityBuilder
	executionID uuid.UUID

	agentID uuid.UUID
	userID  uuid.UUID
	input   string
	status  types.ExecutionStatus
}

func NewExecutionBuilder(t testing.TB, db *memory.Client, agent *memory.Agent) *ExecutionBuilder {
	if agent == nil {
		t.Fatal("agent is required")
	}

	return &ExecutionBuilder{
		entityBuilder: newEntityBuilder(t, db),
		executionID:   ExecutionID(),
		agentID:       agent.ID,
		userID:        agent.OwnerID,
		input:         "Summarize the release notes",
		status:        types.ExecutionStatusPending,
	}
}

func (b *ExecutionBuilder) WithID(id uuid.UUID) *ExecutionBuilder {
	b.executionID = id
	return b
}

func (b *ExecutionBuilder) WithStatus(status types.ExecutionStatus) *ExecutionBuilder {
	b.status = status
	return b
}

func (b *ExecutionBuilder) WithInput(input string) *ExecutionBuilder {
	b.input = input
	return b
}

func (b *ExecutionBuilder) Build(ctx context.Context) *memory.Execution {
	execution, err := b.db.Execution.Create().
		SetID(b.executionID).
		SetAgentID(b.agentID).
		SetUserID(b.userID).
		SetInput(b.input).
		SetStatus(b.status).
		Save(ctx)

	if err != nil {
		b.t.Fatalf("failed to create execution: %v", err)
	}

	return execution
}
