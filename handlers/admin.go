// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/pollstream/live-polls/middleware"
	"github.com/pollstream/live-polls/polls"
)

type AdminHandler struct {
	lifecycle *polls.Lifecycle
}

func NewAdminHandler(lifecycle *polls.Lifecycle) *AdminHandler {
	return &AdminHandler{lifecycle: lifecycle}
}

// ListAll handles GET /admin/polls - every poll, unpublished included.
func (h *AdminHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	summaries, err := h.lifecycle.ListAll(user)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"total": len(summaries),
		"polls": summaries,
	})
}

// ListVoters handles GET /polls/{id}/voters - who voted for what.
func (h *AdminHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	voters, err := h.lifecycle.ListVoters(r.PathValue("id"), user)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voters)
}
