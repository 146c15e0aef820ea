// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pollstream/live-polls/apperr"
	"github.com/pollstream/live-polls/middleware"
)

// respondError maps a core error kind to an HTTP status. This mapping is
// the transport layer's concern; the core only knows kinds.
func respondError(w http.ResponseWriter, err error) {
	var status int
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindInvalidState, apperr.KindConflict:
		status = http.StatusConflict
	default:
		slog.Error("internal error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	middleware.ErrorResponse(w, status, apperr.Message(err))
}
