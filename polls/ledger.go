// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pollstream/live-polls/apperr"
	"github.com/pollstream/live-polls/broadcast"
	"github.com/pollstream/live-polls/models"
)

// Ledger records votes. Its contract is at most one vote per (user, poll):
// a repeat cast for the same option is a no-op, a cast for a different
// option reassigns the existing vote in place.
type Ledger struct {
	db  *sql.DB
	agg *Aggregator
	hub *broadcast.Hub
}

func NewLedger(db *sql.DB, agg *Aggregator, hub *broadcast.Hub) *Ledger {
	return &Ledger{db: db, agg: agg, hub: hub}
}

// CastVote validates poll state and option membership, records or
// reassigns the user's vote, then broadcasts and returns a fresh snapshot.
func (l *Ledger) CastVote(pollID, userID, optionID string) ([]models.OptionCount, error) {
	var isPublished, isClosed bool
	err := l.db.QueryRow(`
		SELECT is_published, is_closed FROM poll WHERE id = $1
	`, pollID).Scan(&isPublished, &isClosed)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("poll not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to query poll", err)
	}

	if !isPublished {
		return nil, apperr.InvalidState("not published")
	}
	if isClosed {
		return nil, apperr.InvalidState("closed")
	}

	var optionPollID string
	err = l.db.QueryRow(`
		SELECT poll_id FROM poll_option WHERE id = $1
	`, optionID).Scan(&optionPollID)
	if err == sql.ErrNoRows {
		return nil, apperr.Validation("option does not belong to poll")
	}
	if err != nil {
		return nil, apperr.Internal("failed to query option", err)
	}
	if optionPollID != pollID {
		return nil, apperr.Validation("option does not belong to poll")
	}

	// Fast-path read. The UNIQUE (user_id, poll_id) constraint remains the
	// authority; a lost race on insert falls through to reassignment.
	var voteID, currentOptionID string
	err = l.db.QueryRow(`
		SELECT id, option_id FROM vote WHERE user_id = $1 AND poll_id = $2
	`, userID, pollID).Scan(&voteID, &currentOptionID)

	switch {
	case err == sql.ErrNoRows:
		_, insErr := l.db.Exec(`
			INSERT INTO vote (id, user_id, poll_id, option_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.NewString(), userID, pollID, optionID, time.Now())
		if insErr != nil {
			if !isUniqueViolation(insErr) {
				return nil, apperr.Internal("failed to insert vote", insErr)
			}
			// Another cast by the same user won the insert.
			_, updErr := l.db.Exec(`
				UPDATE vote SET option_id = $1 WHERE user_id = $2 AND poll_id = $3
			`, optionID, userID, pollID)
			if updErr != nil {
				return nil, apperr.Internal("failed to reassign vote", updErr)
			}
		}

	case err != nil:
		return nil, apperr.Internal("failed to query vote", err)

	case currentOptionID == optionID:
		// Same option again: idempotent no-op.

	default:
		_, updErr := l.db.Exec(`
			UPDATE vote SET option_id = $1 WHERE id = $2
		`, optionID, voteID)
		if updErr != nil {
			return nil, apperr.Internal("failed to reassign vote", updErr)
		}
	}

	results, err := l.agg.Snapshot(pollID)
	if err != nil {
		return nil, err
	}

	l.hub.Publish(pollID, broadcast.Event{
		Type:    broadcast.EventResultsUpdated,
		PollID:  pollID,
		Results: results,
	})

	slog.Info("vote cast", "poll_id", pollID, "user_id", userID, "option_id", optionID)

	return results, nil
}
