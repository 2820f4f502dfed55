package api

import (
	"net/http"

	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/backend/analytics"
	"github.com/deepagents/control/backend/api/conv"
	"github.com/deepagents/control/backend/delegation"
	"github.com/google/uuid"
)

// subagentPath resolves the agents named by the request path and checks that
// the caller may see them. Missing path ids are returned as uuid.Nil.
func (h *Handler) subagentPath(r *http.Request, withChild bool) (parent, child uuid.UUID, err error) {
	parent, err = pathID(r, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if _, err := h.visibleAgent(r.Context(), h.db, currentUser(r), parent, false); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if !withChild {
		return parent, uuid.Nil, nil
	}

	child, err = pathID(r, "subagent_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return parent, child, nil
}

func (h *Handler) addSubagent(w http.ResponseWriter, r *http.Request) error {
	parent, _, err := h.subagentPath(r, false)
	if err != nil {
		return err
	}
	var req v1.AddSubagentRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	if req.SubagentID == uuid.Nil {
		return newError(http.StatusUnprocessableEntity, "subagent_id is required")
	}

	user := currentUser(r)
	// Self references are rejected by the service before the child is looked
	// up so the caller gets the more specific error.
	if req.SubagentID != parent {
		if _, err := h.visibleAgent(r.Context(), h.db, user, req.SubagentID, false); err != nil {
			return err
		}
	}

	edge, err := h.delegations.AddDelegation(r.Context(), parent, req.SubagentID, req.DelegationPrompt, req.Priority)
	if err != nil {
		return err
	}

	analytics.EmitDelegationAdded(h.analytics, user.ID.String(), parent.String(), req.SubagentID.String(), req.Priority)
	writeJSON(w, http.StatusCreated, conv.EdgeToAPI(edge))
	return nil
}

func (h *Handler) listSubagents(w http.ResponseWriter, r *http.Request) error {
	parent, _, err := h.subagentPath(r, false)
	if err != nil {
		return err
	}

	delegations, err := h.delegations.ListDelegations(r.Context(), parent)
	if err != nil {
		return err
	}

	result := make([]*v1.Subagent, len(delegations))
	for i, d := range delegations {
		result[i] = conv.DelegationToAPI(d)
	}
	writeJSON(w, http.StatusOK, result)
	return nil
}

func (h *Handler) updateSubagent(w http.ResponseWriter, r *http.Request) error {
	parent, child, err := h.subagentPath(r, true)
	if err != nil {
		return err
	}
	var req v1.UpdateSubagentRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	edge, err := h.delegations.UpdateDelegation(r.Context(), parent, child, delegation.Patch{
		DelegationPrompt: req.DelegationPrompt,
		Priority:         req.Priority,
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, conv.EdgeToAPI(edge))
	return nil
}

func (h *Handler) removeSubagent(w http.ResponseWriter, r *http.Request) error {
	parent, child, err := h.subagentPath(r, true)
	if err != nil {
		return err
	}

	if err := h.delegations.RemoveDelegation(r.Context(), parent, child); err != nil {
		return err
	}

	analytics.EmitDelegationRemoved(h.analytics, currentUser(r).ID.String(), parent.String(), child.String())
	w.WriteHeader(http.StatusNoContent)
	return nil
}
