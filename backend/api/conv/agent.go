package conv

import (
	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/backend/delegation"
	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/memory/schema/types"
	"github.com/google/uuid"
)

func MemoryUserToAPI(u *memory.User) *v1.User {
	return &v1.User{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreateTime,
		UpdatedAt:   u.UpdateTime,
	}
}

func MemoryAgentToAPI(a *memory.Agent, toolIDs []uuid.UUID) *v1.Agent {
	if toolIDs == nil {
		toolIDs = []uuid.UUID{}
	}
	return &v1.Agent{
		ID:           a.ID,
		Name:         a.Name,
		Description:  a.Description,
		Instructions: a.Instructions,
		ModelName:    a.ModelName,
		Temperature:  a.Temperature,
		MaxTokens:    a.MaxTokens,
		IsActive:     a.IsActive,
		OwnerID:      a.OwnerID,
		ToolIDs:      toolIDs,
		CreatedAt:    a.CreateTime,
		UpdatedAt:    a.UpdateTime,
		DeletedAt:    a.DeleteTime,
	}
}

func EdgeToAPI(e *delegation.Edge) *v1.Subagent {
	return &v1.Subagent{
		ID:               e.ID,
		AgentID:          e.ParentID,
		SubagentID:       e.ChildID,
		DelegationPrompt: e.DelegationPrompt,
		Priority:         e.Priority,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func DelegationToAPI(d delegation.Delegation) *v1.Subagent {
	s := EdgeToAPI(&d.Edge)
	s.Subagent = &v1.SubagentSummary{
		ID:       d.Subagent.ID,
		Name:     d.Subagent.Name,
		IsActive: d.Subagent.IsActive,
	}
	return s
}

func MemoryTemplateToAPI(t *memory.Template) *v1.Template {
	return &v1.Template{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		Config:      v1.TemplateConfig(t.Config),
		IsPublic:    t.IsPublic,
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreateTime,
		UpdatedAt:   t.UpdateTime,
	}
}

func APITemplateConfigToMemory(c v1.TemplateConfig) types.TemplateConfig {
	return types.TemplateConfig(c)
}
