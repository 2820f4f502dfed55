package api

import (
	"context"
	"net/http"
	"strings"

	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/backend/analytics"
	"github.com/deepagents/control/backend/api/conv"
	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/memory/agent"
	"github.com/deepagents/control/backend/memory/template"
	"github.com/google/uuid"
)

func (h *Handler) visibleTemplate(ctx context.Context, db *memory.Client, user *memory.User, id uuid.UUID, write bool) (*memory.Template, error) {
	t, err := db.Template.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := t.OwnerID == user.ID || user.IsSuperuser
	if !owner && !t.IsPublic {
		return nil, newError(http.StatusNotFound, "template not found")
	}
	if write && !owner {
		return nil, newError(http.StatusForbidden, "not enough permissions")
	}
	return t, nil
}

func validateTemplateConfig(c *v1.TemplateConfig) error {
	if c.ModelName == "" {
		c.ModelName = agent.DefaultModelName
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = agent.DefaultMaxTokens
	}
	return validateAgentSettings(&c.Temperature, &c.MaxTokens)
}

func (h *Handler) createTemplate(w http.ResponseWriter, r *http.Request) error {
	var req v1.CreateTemplateRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return newError(http.StatusUnprocessableEntity, "name is required")
	}
	if err := validateTemplateConfig(&req.Config); err != nil {
		return err
	}

	user := currentUser(r)
	ctx := r.Context()

	t, err := memory.Transaction(ctx, h.db, func(tx *memory.Client) (*memory.Template, error) {
		toolIDs, err := checkTools(ctx, tx, user, req.Config.ToolIDs)
		if err != nil {
			return nil, err
		}
		req.Config.ToolIDs = toolIDs

		return tx.Template.Create().
			SetName(req.Name).
			SetDescription(req.Description).
			SetCategory(req.Category).
			SetConfig(conv.APITemplateConfigToMemory(req.Config)).
			SetIsPublic(req.IsPublic).
			SetOwnerID(user.ID).
			Save(ctx)
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, conv.MemoryTemplateToAPI(t))
	return nil
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) error {
	p, err := pagination(r)
	if err != nil {
		return err
	}
	user := currentUser(r)

	query := h.db.Template.Query()
	if !user.IsSuperuser {
		query.Where(template.VisibleTo(user.ID))
	}
	if category := r.URL.Query().Get("category"); category != "" {
		query.Where(template.Category(category))
	}

	templates, err := query.OrderByName().Offset(p.skip).Limit(p.limit).All(r.Context())
	if err != nil {
		return err
	}

	result := make([]*v1.Template, len(templates))
	for i, t := range templates {
		result[i] = conv.MemoryTemplateToAPI(t)
	}
	writeJSON(w, http.StatusOK, result)
	return nil
}

func (h *Handler) getTemplate(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	t, err := h.visibleTemplate(r.Context(), h.db, currentUser(r), id, false)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, conv.MemoryTemplateToAPI(t))
	return nil
}

func (h *Handler) updateTemplate(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req v1.UpdateTemplateRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	if req.Config != nil {
		if err := validateTemplateConfig(req.Config); err != nil {
			return err
		}
	}

	user := currentUser(r)
	ctx := r.Context()

	t, err := memory.Transaction(ctx, h.db, func(tx *memory.Client) (*memory.Template, error) {
		if _, err := h.visibleTemplate(ctx, tx, user, id, true); err != nil {
			return nil, err
		}

		update := tx.Template.UpdateOneID(id)
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
		if req.Category != nil {
			update.SetCategory(*req.Category)
		}
		if req.Config != nil {
			toolIDs, err := checkTools(ctx, tx, user, req.Config.ToolIDs)
			if err != nil {
				return nil, err
			}
			req.Config.ToolIDs = toolIDs
			update.SetConfig(conv.APITemplateConfigToMemory(*req.Config))
		}
		if req.IsPublic != nil {
			update.SetIsPublic(*req.IsPublic)
		}
		return update.Save(ctx)
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, conv.MemoryTemplateToAPI(t))
	return nil
}

func (h *Handler) deleteTemplate(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	ctx := r.Context()
	_, err = memory.Transaction(ctx, h.db, func(tx *memory.Client) (*struct{}, error) {
		if _, err := h.visibleTemplate(ctx, tx, currentUser(r), id, true); err != nil {
			return nil, err
		}
		return nil, tx.Template.DeleteOneID(id).Exec(ctx)
	})
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// instantiateTemplate creates an agent owned by the caller from the template
// configuration. Tools the caller can no longer see are rejected.
func (h *Handler) instantiateTemplate(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req v1.InstantiateTemplateRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			return err
		}
	}

	user := currentUser(r)
	ctx := r.Context()

	result, err := memory.Transaction(ctx, h.db, func(tx *memory.Client) (*v1.Agent, error) {
		t, err := h.visibleTemplate(ctx, tx, user, id, false)
		if err != nil {
			return nil, err
		}

		toolIDs, err := checkTools(ctx, tx, user, t.Config.ToolIDs)
		if err != nil {
			return nil, err
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = t.Name
		}

		a, err := tx.Agent.Create().
			SetName(name).
			SetDescription(t.Description).
			SetInstructions(t.Config.Instructions).
			SetModelName(t.Config.ModelName).
			SetTemperature(t.Config.Temperature).
			SetMaxTokens(t.Config.MaxTokens).
			SetIsActive(true).
			SetOwnerID(user.ID).
			AddToolIDs(toolIDs...).
			Save(ctx)
		if err != nil {
			return nil, err
		}
		return conv.MemoryAgentToAPI(a, toolIDs), nil
	})
	if err != nil {
		return err
	}

	analytics.EmitAgentCreated(h.analytics, user.ID.String(), result.ID.String(), result.Name, result.ModelName)
	writeJSON(w, http.StatusCreated, result)
	return nil
}
