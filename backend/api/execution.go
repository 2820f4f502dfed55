package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/backend/analytics"
	"github.com/deepagents/control/backend/api/conv"
	"github.com/deepagents/control/backend/event"
	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/memory/execution"
	"github.com/deepagents/control/backend/memory/schema/types"
	"github.com/google/uuid"
)

func (h *Handler) visibleExecution(ctx context.Context, user *memory.User, id uuid.UUID) (*memory.Execution, error) {
	e, err := h.db.Execution.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != user.ID && !user.IsSuperuser {
		return nil, newError(http.StatusNotFound, "execution not found")
	}
	return e, nil
}

func (h *Handler) createExecution(w http.ResponseWriter, r *http.Request) error {
	agentID, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var req v1.CreateExecutionRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Input) == "" {
		return newError(http.StatusUnprocessableEntity, "input is required")
	}

	user := currentUser(r)
	ctx := r.Context()

	a, err := h.visibleAgent(ctx, h.db, user, agentID, false)
	if err != nil {
		return err
	}
	if !a.IsActive {
		return newError(http.StatusBadRequest, "agent is inactive")
	}

	e, err := h.db.Execution.Create().
		SetAgentID(a.ID).
		SetUserID(user.ID).
		SetInput(req.Input).
		SetStatus(types.ExecutionStatusPending).
		Save(ctx)
	if err != nil {
		return err
	}

	event.Publish(ctx, h.bus, event.ExecutionCreated{ExecutionID: e.ID})
	analytics.EmitExecutionCreated(h.analytics, user.ID.String(), e.ID.String(), a.ID.String())
	writeJSON(w, http.StatusAccepted, conv.MemoryExecutionToAPI(e))
	return nil
}

func (h *Handler) listExecutions(w http.ResponseWriter, r *http.Request) error {
	p, err := pagination(r)
	if err != nil {
		return err
	}
	user := currentUser(r)
	q := r.URL.Query()

	query := h.db.Execution.Query()
	if !user.IsSuperuser {
		query.Where(execution.UserID(user.ID))
	}
	if s := q.Get("agent_id"); s != "" {
		agentID, err := uuid.Parse(s)
		if err != nil {
			return newError(http.StatusUnprocessableEntity, "invalid agent_id format: %v", err)
		}
		query.Where(execution.AgentID(agentID))
	}
	if s := q.Get("status"); s != "" {
		status, err := conv.APIExecutionStatusToMemory(s)
		if err != nil {
			return newError(http.StatusUnprocessableEntity, "%v", err)
		}
		query.Where(execution.Status(status))
	}

	executions, err := query.OrderByNewest().Offset(p.skip).Limit(p.limit).All(r.Context())
	if err != nil {
		return err
	}

	result := make([]*v1.Execution, len(executions))
	for i, e := range executions {
		result[i] = conv.MemoryExecutionToAPI(e)
	}
	writeJSON(w, http.StatusOK, result)
	return nil
}

func (h *Handler) getExecution(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	e, err := h.visibleExecution(r.Context(), currentUser(r), id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, conv.MemoryExecutionToAPI(e))
	return nil
}

func (h *Handler) listExecutionEvents(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	if _, err := h.visibleExecution(r.Context(), currentUser(r), id); err != nil {
		return err
	}

	events, err := h.db.Execution.Events(r.Context(), id)
	if err != nil {
		return err
	}

	result := make([]*v1.ExecutionEvent, len(events))
	for i, e := range events {
		result[i] = conv.MemoryExecutionEventToAPI(e)
	}
	writeJSON(w, http.StatusOK, result)
	return nil
}

// cancelExecution cancels a pending execution directly. Running executions
// are cancelled by the runner, which records the final status.
func (h *Handler) cancelExecution(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	ctx := r.Context()
	e, err := h.visibleExecution(ctx, currentUser(r), id)
	if err != nil {
		return err
	}
	if e.Status.Terminal() {
		return newError(http.StatusBadRequest, "execution already %s", e.Status)
	}

	if e.Status == types.ExecutionStatusPending {
		const reason = "cancelled by user"
		cancelled, err := h.db.Execution.Transition(ctx,
			h.db.Execution.UpdateOneID(id).
				SetStatus(types.ExecutionStatusCancelled).
				SetError(reason).
				SetCompletedAt(time.Now()),
			types.ExecutionStatusPending,
		)
		if err != nil {
			return err
		}
		if cancelled {
			payload := map[string]any{"status": string(types.ExecutionStatusCancelled), "error": reason}
			if _, err := h.db.Execution.AddEvent(ctx, id, types.ExecutionEventCancelled, payload); err != nil {
				return err
			}
		}
	}

	// Covers executions that were running already and those that started
	// between the lookup and the transition above.
	event.Publish(ctx, h.bus, event.ExecutionCancelled{ExecutionID: id})

	e, err = h.db.Execution.Get(ctx, id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusAccepted, conv.MemoryExecutionToAPI(e))
	return nil
}
