package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/backend/api/conv"
	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/memory/schema/types"
	memory_tool "github.com/deepagents/control/backend/memory/tool"
	"github.com/deepagents/control/backend/secret"
	"github.com/deepagents/control/backend/tool"
	"github.com/google/uuid"
)

func (h *Handler) visibleTool(ctx context.Context, db *memory.Client, user *memory.User, id uuid.UUID, write bool) (*memory.Tool, error) {
	t, err := db.Tool.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := t.OwnerID == user.ID || user.IsSuperuser
	if !owner && !t.IsPublic {
		return nil, newError(http.StatusNotFound, "tool not found")
	}
	if write && !owner {
		return nil, newError(http.StatusForbidden, "not enough permissions")
	}
	return t, nil
}

func (h *Handler) sealCredentials(toolID uuid.UUID, credentials map[string]any) ([]byte, error) {
	if len(credentials) == 0 {
		return nil, nil
	}
	if h.encryption == nil {
		return nil, fmt.Errorf("credential encryption is not configured")
	}

	plaintext, err := json.Marshal(credentials)
	if err != nil {
		return nil, err
	}
	return h.encryption.Encrypt(plaintext, secret.ToolCredentials(toolID))
}

func validateToolConfig(toolType string, config map[string]any) (types.ToolType, error) {
	t, err := conv.APIToolTypeToMemory(toolType)
	if err != nil {
		return "", newError(http.StatusUnprocessableEntity, "%v", err)
	}
	if err := tool.Validate(t, config); err != nil {
		return "", newError(http.StatusUnprocessableEntity, "%v", err)
	}
	return t, nil
}

func (h *Handler) createTool(w http.ResponseWriter, r *http.Request) error {
	var req v1.CreateToolRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return newError(http.StatusUnprocessableEntity, "name is required")
	}
	if req.Config == nil {
		req.Config = map[string]any{}
	}
	toolType, err := validateToolConfig(req.ToolType, req.Config)
	if err != nil {
		return err
	}

	id := uuid.Must(uuid.NewV7())
	credentials, err := h.sealCredentials(id, req.Credentials)
	if err != nil {
		return err
	}

	t, err := h.db.Tool.Create().
		SetID(id).
		SetName(req.Name).
		SetDescription(req.Description).
		SetToolType(toolType).
		SetConfig(req.Config).
		SetCredentials(credentials).
		SetIsPublic(req.IsPublic).
		SetOwnerID(currentUser(r).ID).
		Save(r.Context())
	if err != nil {
		if memory.IsUniqueViolation(err) {
			return newError(http.StatusBadRequest, "tool %q already exists", req.Name)
		}
		return err
	}

	writeJSON(w, http.StatusCreated, conv.MemoryToolToAPI(t))
	return nil
}

func (h *Handler) listTools(w http.ResponseWriter, r *http.Request) error {
	p, err := pagination(r)
	if err != nil {
		return err
	}
	user := currentUser(r)

	query := h.db.Tool.Query()
	if !user.IsSuperuser {
		query.Where(memory_tool.VisibleTo(user.ID))
	}
	if toolType := r.URL.Query().Get("tool_type"); toolType != "" {
		query.Where(memory_tool.ToolType(toolType))
	}

	tools, err := query.OrderByName().Offset(p.skip).Limit(p.limit).All(r.Context())
	if err != nil {
		return err
	}

	result := make([]*v1.Tool, len(tools))
	for i, t := range tools {
		result[i] = conv.MemoryToolToAPI(t)
	}
	writeJSON(w, http.StatusOK, result)
	return nil
}

func (h *Handler) getTool(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	t, err := h.visibleTool(r.Context(), h.db, currentUser(r), id, false)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, conv.MemoryToolToAPI(t))
	return nil
}

func (h *Handler) updateTool(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req v1.UpdateToolRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	ctx := r.Context()
	t, err := memory.Transaction(ctx, h.db, func(tx *memory.Client) (*memory.Tool, error) {
		existing, err := h.visibleTool(ctx, tx, currentUser(r), id, true)
		if err != nil {
			return nil, err
		}

		update := tx.Tool.UpdateOneID(id)
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return nil, newError(http.StatusUnprocessableEntity, "name must not be empty")
			}
			update.SetName(name)
		}
		if req.Description != nil {
			update.SetDescription(*req.Description)
		}
		if req.Config != nil {
			if _, err := validateToolConfig(string(existing.ToolType), *req.Config); err != nil {
				return nil, err
			}
			update.SetConfig(*req.Config)
		}
		if req.Credentials != nil {
			if len(*req.Credentials) == 0 {
				update.ClearCredentials()
			} else {
				sealed, err := h.sealCredentials(id, *req.Credentials)
				if err != nil {
					return nil, err
				}
				update.SetCredentials(sealed)
			}
		}
		if req.IsPublic != nil {
			update.SetIsPublic(*req.IsPublic)
		}

		t, err := update.Save(ctx)
		if memory.IsUniqueViolation(err) {
			return nil, newError(http.StatusBadRequest, "tool %q already exists", *req.Name)
		}
		return t, err
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, conv.MemoryToolToAPI(t))
	return nil
}

func (h *Handler) deleteTool(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	ctx := r.Context()
	_, err = memory.Transaction(ctx, h.db, func(tx *memory.Client) (*struct{}, error) {
		if _, err := h.visibleTool(ctx, tx, currentUser(r), id, true); err != nil {
			return nil, err
		}
		return nil, tx.Tool.DeleteOneID(id).Exec(ctx)
	})
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
