package api

import (
	"net/http"
	"strings"

	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/backend/analytics"
	"github.com/deepagents/control/backend/api/conv"
	"github.com/deepagents/control/backend/auth"
	"github.com/deepagents/control/backend/memory"
	"github.com/getsentry/sentry-go"
)

// authenticated resolves the bearer token of the request and stores the user
// in the request context.
func (h *Handler) authenticated(next handlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
			return newError(http.StatusUnauthorized, "not authenticated")
		}

		user, err := h.auth.Resolve(r.Context(), token)
		if err != nil {
			return err
		}

		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.Scope().SetUser(sentry.User{ID: user.ID.String(), Username: user.Username})
		}
		return next(w, r.WithContext(auth.WithUser(r.Context(), user)))
	}
}

func currentUser(r *http.Request) *memory.User {
	return auth.UserFromContext(r.Context())
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) error {
	var req v1.RegisterRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(r.Context(), auth.Registration{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		return err
	}

	analytics.EmitUserRegistered(h.analytics, user.ID.String())
	writeJSON(w, http.StatusCreated, conv.MemoryUserToAPI(user))
	return nil
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) error {
	var req v1.LoginRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	user, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, v1.Token{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   int64(token.ExpiresIn.Seconds()),
	})
	return nil
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, conv.MemoryUserToAPI(currentUser(r)))
	return nil
}
