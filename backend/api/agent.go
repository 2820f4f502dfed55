package api

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/backend/analytics"
	"github.com/deepagents/control/backend/api/conv"
	"github.com/deepagents/control/backend/event"
	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/memory/agent"
	"github.com/deepagents/control/backend/memory/tool"
	"github.com/google/uuid"
)

func validateAgentSettings(temperature *float64, maxTokens *int) error {
	if temperature != nil && (*temperature < 0 || *temperature > 2) {
		return newError(http.StatusUnprocessableEntity, "temperature must be between 0 and 2")
	}
	if maxTokens != nil && *maxTokens <= 0 {
		return newError(http.StatusUnprocessableEntity, "max_tokens must be greater than 0")
	}
	return nil
}

// visibleAgent loads an agent the user may access. Agents of other users are
// reported as missing.
func (h *Handler) visibleAgent(ctx context.Context, db *memory.Client, user *memory.User, id uuid.UUID, includeDeleted bool) (*memory.Agent, error) {
	a, err := db.Agent.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.OwnerID != user.ID && !user.IsSuperuser {
		return nil, newError(http.StatusNotFound, "agent not found")
	}
	if a.Deleted() && !includeDeleted {
		return nil, newError(http.StatusNotFound, "agent not found")
	}
	return a, nil
}

// checkTools verifies that every id references a tool owned by the user or
// shared publicly.
func checkTools(ctx context.Context, db *memory.Client, user *memory.User, ids []uuid.UUID) ([]uuid.UUID, error) {
	unique := slices.Compact(slices.SortedFunc(slices.Values(ids), func(a, b uuid.UUID) int {
		return strings.Compare(a.String(), b.String())
	}))
	if len(unique) == 0 {
		return nil, nil
	}

	n, err := db.Tool.Query().Where(tool.IDIn(unique...), tool.VisibleTo(user.ID)).Count(ctx)
	if err != nil {
		return nil, err
	}
	if n != len(unique) {
		return nil, newError(http.StatusBadRequest, "one or more tools were not found")
	}
	return unique, nil
}

func (h *Handler) createAgent(w http.ResponseWriter, r *http.Request) error {
	var req v1.CreateAgentRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return newError(http.StatusUnprocessableEntity, "name is required")
	}
	if err := validateAgentSettings(req.Temperature, req.MaxTokens); err != nil {
		return err
	}

	user := currentUser(r)
	ctx := r.Context()

	result, err := memory.Transaction(ctx, h.db, func(tx *memory.Client) (*v1.Agent, error) {
		toolIDs, err := checkTools(ctx, tx, user, req.ToolIDs)
		if err != nil {
			return nil, err
		}

		create := tx.Agent.Create().
			SetName(req.Name).
			SetDescription(req.Description).
			SetInstructions(req.Instructions).
			SetModelName(agent.DefaultModelName).
			SetTemperature(agent.DefaultTemperature).
			SetMaxTokens(agent.DefaultMaxTokens).
			SetIsActive(true).
			SetOwnerID(user.ID).
			AddToolIDs(toolIDs...)
		if req.ModelName != "" {
			create.SetModelName(req.ModelName)
		}
		if req.Temperature != nil {
			create.SetTemperature(*req.Temperature)
		}
		if req.MaxTokens != nil {
			create.SetMaxTokens(*req.MaxTokens)
		}
		if req.IsActive != nil {
			create.SetIsActive(*req.IsActive)
		}

		a, err := create.Save(ctx)
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

func (h *Handler) listAgents(w http.ResponseWriter, r *http.Request) error {
	p, err := pagination(r)
	if err != nil {
		return err
	}
	user := currentUser(r)

	query := h.db.Agent.Query().Where(agent.NotDeleted())
	if !user.IsSuperuser {
		query.Where(agent.OwnerID(user.ID))
	}
	if name := r.URL.Query().Get("name"); name != "" {
		query.Where(agent.NameContains(name))
	}
	if s := r.URL.Query().Get("is_active"); s != "" {
		active, err := strconv.ParseBool(s)
		if err != nil {
			return newError(http.StatusUnprocessableEntity, "is_active must be a boolean")
		}
		query.Where(agent.IsActive(active))
	}

	agents, err := query.OrderByCreateTime().Offset(p.skip).Limit(p.limit).All(r.Context())
	if err != nil {
		return err
	}

	ids := make([]uuid.UUID, len(agents))
	for i, a := range agents {
		ids[i] = a.ID
	}
	toolIDs, err := h.db.Agent.ToolIDs(r.Context(), ids...)
	if err != nil {
		return err
	}

	result := make([]*v1.Agent, len(agents))
	for i, a := range agents {
		result[i] = conv.MemoryAgentToAPI(a, toolIDs[a.ID])
	}
	writeJSON(w, http.StatusOK, result)
	return nil
}

func (h *Handler) agentResponse(ctx context.Context, db *memory.Client, a *memory.Agent) (*v1.Agent, error) {
	toolIDs, err := db.Agent.ToolIDs(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return conv.MemoryAgentToAPI(a, toolIDs[a.ID]), nil
}

func (h *Handler) getAgent(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	a, err := h.visibleAgent(r.Context(), h.db, currentUser(r), id, false)
	if err != nil {
		return err
	}

	result, err := h.agentResponse(r.Context(), h.db, a)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, result)
	return nil
}

func (h *Handler) updateAgent(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req v1.UpdateAgentRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	if req.Name != nil {
		*req.Name = strings.TrimSpace(*req.Name)
		if *req.Name == "" {
			return newError(http.StatusUnprocessableEntity, "name must not be empty")
		}
	}
	if err := validateAgentSettings(req.Temperature, req.MaxTokens); err != nil {
		return err
	}

	user := currentUser(r)
	ctx := r.Context()

	result, err := memory.Transaction(ctx, h.db, func(tx *memory.Client) (*v1.Agent, error) {
		if _, err := h.visibleAgent(ctx, tx, user, id, false); err != nil {
			return nil, err
		}

		update := tx.Agent.UpdateOneID(id)
		if req.Name != nil {
			update.SetName(*req.Name)
		}
		if req.Description != nil {
			update.SetDescription(*req.Description)
		}
		if req.Instructions != nil {
			update.SetInstructions(*req.Instructions)
		}
		if req.ModelName != nil {
			update.SetModelName(*req.ModelName)
		}
		if req.Temperature != nil {
			update.SetTemperature(*req.Temperature)
		}
		if req.MaxTokens != nil {
			update.SetMaxTokens(*req.MaxTokens)
		}
		if req.IsActive != nil {
			update.SetIsActive(*req.IsActive)
		}
		if req.ToolIDs != nil {
			toolIDs, err := checkTools(ctx, tx, user, *req.ToolIDs)
			if err != nil {
				return nil, err
			}
			update.SetToolIDs(toolIDs...)
		}

		a, err := update.Save(ctx)
		if err != nil {
			return nil, err
		}
		return h.agentResponse(ctx, tx, a)
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, result)
	return nil
}

// deleteAgent soft deletes an agent. With permanent=true the row is removed
// together with its delegations, tool links and executions.
func (h *Handler) deleteAgent(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	permanent := false
	if s := r.URL.Query().Get("permanent"); s != "" {
		if permanent, err = strconv.ParseBool(s); err != nil {
			return newError(http.StatusUnprocessableEntity, "permanent must be a boolean")
		}
	}

	user := currentUser(r)
	ctx := r.Context()

	_, err = memory.Transaction(ctx, h.db, func(tx *memory.Client) (*struct{}, error) {
		a, err := h.visibleAgent(ctx, tx, user, id, permanent)
		if err != nil {
			return nil, err
		}
		if permanent {
			return nil, tx.Agent.DeleteOneID(a.ID).Exec(ctx)
		}
		_, err = tx.Agent.UpdateOneID(a.ID).SetDeleteTime(time.Now()).Save(ctx)
		return nil, err
	})
	if err != nil {
		return err
	}

	event.Publish(ctx, h.bus, event.AgentDeleted{AgentID: id, Permanent: permanent})
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) restoreAgent(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	user := currentUser(r)
	ctx := r.Context()

	result, err := memory.Transaction(ctx, h.db, func(tx *memory.Client) (*v1.Agent, error) {
		a, err := h.visibleAgent(ctx, tx, user, id, true)
		if err != nil {
			return nil, err
		}
		if !a.Deleted() {
			return nil, newError(http.StatusBadRequest, "agent is not deleted")
		}

		a, err = tx.Agent.UpdateOneID(id).ClearDeleteTime().Save(ctx)
		if err != nil {
			return nil, err
		}
		return h.agentResponse(ctx, tx, a)
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, result)
	return nil
}
