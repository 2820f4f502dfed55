// Package v1 holds the JSON messages of the DeepAgents REST API.
package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type Agent struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Instructions string      `json:"instructions"`
	ModelName    string      `json:"model_name"`
	Temperature  float64     `json:"temperature"`
	MaxTokens    int         `json:"max_tokens"`
	IsActive     bool        `json:"is_active"`
	OwnerID      uuid.UUID   `json:"owner_id"`
	ToolIDs      []uuid.UUID `json:"tool_ids"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	DeletedAt    *time.Time  `json:"deleted_at,omitempty"`
}

type CreateAgentRequest struct {
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	Instructions string      `json:"instructions,omitempty"`
	ModelName    string      `json:"model_name,omitempty"`
	Temperature  *float64    `json:"temperature,omitempty"`
	MaxTokens    *int        `json:"max_tokens,omitempty"`
	IsActive     *bool       `json:"is_active,omitempty"`
	ToolIDs      []uuid.UUID `json:"tool_ids,omitempty"`
}

// UpdateAgentRequest is a partial update. Nil fields are left unchanged.
type UpdateAgentRequest struct {
	Name         *string      `json:"name,omitempty"`
	Description  *string      `json:"description,omitempty"`
	Instructions *string      `json:"instructions,omitempty"`
	ModelName    *string      `json:"model_name,omitempty"`
	Temperature  *float64     `json:"temperature,omitempty"`
	MaxTokens    *int         `json:"max_tokens,omitempty"`
	IsActive     *bool        `json:"is_active,omitempty"`
	ToolIDs      *[]uuid.UUID `json:"tool_ids,omitempty"`
}

type ListAgentsRequest struct {
	Name     string
	IsActive *bool
	Skip     int
	Limit    int
}

type SubagentSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	IsActive bool      `json:"is_active"`
}

type Subagent struct {
	ID               int              `json:"id"`
	AgentID          uuid.UUID        `json:"agent_id"`
	SubagentID       uuid.UUID        `json:"subagent_id"`
	DelegationPrompt string           `json:"delegation_prompt"`
	Priority         int              `json:"priority"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Subagent         *SubagentSummary `json:"subagent,omitempty"`
}

type AddSubagentRequest struct {
	SubagentID       uuid.UUID `json:"subagent_id"`
	DelegationPrompt string    `json:"delegation_prompt"`
	Priority         int       `json:"priority"`
}

type UpdateSubagentRequest struct {
	DelegationPrompt *string `json:"delegation_prompt,omitempty"`
	Priority         *int    `json:"priority,omitempty"`
}

type Tool struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	ToolType       string         `json:"tool_type"`
	Config         map[string]any `json:"config"`
	HasCredentials bool           `json:"has_credentials"`
	IsPublic       bool           `json:"is_public"`
	OwnerID        uuid.UUID      `json:"owner_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type CreateToolRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	ToolType    string         `json:"tool_type"`
	Config      map[string]any `json:"config,omitempty"`
	Credentials map[string]any `json:"credentials,omitempty"`
	IsPublic    bool           `json:"is_public,omitempty"`
}

type UpdateToolRequest struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Config      *map[string]any `json:"config,omitempty"`
	// Credentials replaces the stored credentials. An empty object clears them.
	Credentials *map[string]any `json:"credentials,omitempty"`
	IsPublic    *bool           `json:"is_public,omitempty"`
}

type TemplateConfig struct {
	Instructions string      `json:"instructions"`
	ModelName    string      `json:"model_name"`
	Temperature  float64     `json:"temperature"`
	MaxTokens    int         `json:"max_tokens"`
	ToolIDs      []uuid.UUID `json:"tool_ids,omitempty"`
}

type Template struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Config      TemplateConfig `json:"config"`
	IsPublic    bool           `json:"is_public"`
	OwnerID     uuid.UUID      `json:"owner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type CreateTemplateRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	Config      TemplateConfig `json:"config"`
	IsPublic    bool           `json:"is_public,omitempty"`
}

type UpdateTemplateRequest struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Config      *TemplateConfig `json:"config,omitempty"`
	IsPublic    *bool           `json:"is_public,omitempty"`
}

type InstantiateTemplateRequest struct {
	Name string `json:"name,omitempty"`
}

type Execution struct {
	ID           uuid.UUID       `json:"id"`
	AgentID      uuid.UUID       `json:"agent_id"`
	UserID       uuid.UUID       `json:"user_id"`
	Input        string          `json:"input"`
	Output       string          `json:"output,omitempty"`
	Status       string          `json:"status"`
	Error        string          `json:"error,omitempty"`
	InputTokens  int64           `json:"input_tokens"`
	OutputTokens int64           `json:"output_tokens"`
	Cost         decimal.Decimal `json:"cost"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type CreateExecutionRequest struct {
	Input string `json:"input"`
}

type ListExecutionsRequest struct {
	AgentID *uuid.UUID
	Status  string
	Skip    int
	Limit   int
}

type ExecutionEvent struct {
	Sequence  int            `json:"sequence"`
	EventType string         `json:"event_type"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type Health struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
