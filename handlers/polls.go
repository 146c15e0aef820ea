// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/pollstream/live-polls/middleware"
	"github.com/pollstream/live-polls/models"
	"github.com/pollstream/live-polls/polls"
)

type PollHandler struct {
	lifecycle *polls.Lifecycle
	ledger    *polls.Ledger
}

func NewPollHandler(lifecycle *polls.Lifecycle, ledger *polls.Ledger) *PollHandler {
	return &PollHandler{lifecycle: lifecycle, ledger: ledger}
}

// Create handles POST /polls
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	summary, err := h.lifecycle.CreatePoll(user.ID, req.Question, req.Options, req.PublishAt)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, summary)
}

// List handles GET /polls - published polls with counts, paginated,
// optional q= question search.
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	resp, err := h.lifecycle.ListPublished(q, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Get handles GET /polls/{id}
func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	summary, err := h.lifecycle.GetPoll(pollID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summary)
}

// Vote handles POST /polls/{id}/vote
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "optionId required")
		return
	}

	results, err := h.ledger.CastVote(pollID, user.ID, req.OptionID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		PollID:  pollID,
		Results: results,
	})
}

// Publish handles POST /polls/{id}/publish
func (h *PollHandler) Publish(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	poll, err := h.lifecycle.PublishNow(r.PathValue("id"), user)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// Close handles POST /polls/{id}/close
func (h *PollHandler) Close(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	poll, err := h.lifecycle.ClosePoll(r.PathValue("id"), user)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// Edit handles PUT /polls/{id}
func (h *PollHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.EditPollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	summary, err := h.lifecycle.EditPoll(r.PathValue("id"), user, req)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summary)
}

// Delete handles DELETE /polls/{id}
func (h *PollHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.lifecycle.DeletePoll(r.PathValue("id"), user); err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DeleteResponse{Success: true})
}

// UpdateOption handles PUT /polls/{id}/options/{optionId}
func (h *PollHandler) UpdateOption(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.UpdateOptionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	opt, err := h.lifecycle.UpdateOption(r.PathValue("id"), r.PathValue("optionId"), user, req.Text)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, opt)
}

// DeleteOption handles DELETE /polls/{id}/options/{optionId}
func (h *PollHandler) DeleteOption(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	results, err := h.lifecycle.DeleteOption(r.PathValue("id"), r.PathValue("optionId"), user)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		PollID:  r.PathValue("id"),
		Results: results,
	})
}
