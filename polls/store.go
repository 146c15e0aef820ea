// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/pollstream/live-polls/apperr"
	"github.com/pollstream/live-polls/models"
)

// isUniqueViolation reports whether err is a UNIQUE constraint violation
// from either supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// getPoll loads one poll row.
func getPoll(db *sql.DB, pollID string) (models.Poll, error) {
	var p models.Poll
	var publishAt sql.NullTime
	err := db.QueryRow(`
		SELECT id, question, is_published, is_closed, publish_at, creator_id, created_at, updated_at
		FROM poll
		WHERE id = $1
	`, pollID).Scan(
		&p.ID, &p.Question, &p.IsPublished, &p.IsClosed,
		&publishAt, &p.CreatorID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Poll{}, apperr.NotFound("poll not found")
	}
	if err != nil {
		return models.Poll{}, apperr.Internal("failed to query poll", err)
	}
	if publishAt.Valid {
		t := publishAt.Time
		p.PublishAt = &t
	}
	return p, nil
}

// getUserRef loads the public shape of a user.
func getUserRef(db *sql.DB, userID string) (models.UserRef, error) {
	var ref models.UserRef
	err := db.QueryRow(`SELECT id, name FROM app_user WHERE id = $1`, userID).Scan(&ref.ID, &ref.Name)
	if err == sql.ErrNoRows {
		return models.UserRef{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return models.UserRef{}, apperr.Internal("failed to query user", err)
	}
	return ref, nil
}

// canManage is the ownership rule shared by every mutating poll operation:
// ADMINs may manage any poll, everyone else only their own.
func canManage(actor models.User, poll models.Poll) bool {
	return actor.Role == models.RoleAdmin || actor.ID == poll.CreatorID
}
