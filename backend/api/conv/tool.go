package conv

import (
	"fmt"

	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/memory/schema/types"
)

// MemoryToolToAPI never exposes credentials, only whether they are set.
func MemoryToolToAPI(t *memory.Tool) *v1.Tool {
	config := t.Config
	if config == nil {
		config = map[string]any{}
	}
	return &v1.Tool{
		ID:             t.ID,
		Name:           t.Name,
		Description:    t.Description,
		ToolType:       string(t.ToolType),
		Config:         config,
		HasCredentials: len(t.Credentials) > 0,
		IsPublic:       t.IsPublic,
		OwnerID:        t.OwnerID,
		CreatedAt:      t.CreateTime,
		UpdatedAt:      t.UpdateTime,
	}
}

func APIToolTypeToMemory(s string) (types.ToolType, error) {
	switch t := types.ToolType(s); t {
	case types.ToolTypeBuiltin, types.ToolTypeFunction, types.ToolTypeAPI:
		return t, nil
	default:
		return "", fmt.Errorf("unknown tool type %q", s)
	}
}
