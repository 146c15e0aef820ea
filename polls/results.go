// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"database/sql"

	"github.com/pollstream/live-polls/apperr"
	"github.com/pollstream/live-polls/models"
)

// Aggregator computes live tally snapshots. It reads committed state only
// and never mutates anything.
type Aggregator struct {
	db *sql.DB
}

func NewAggregator(db *sql.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Snapshot tallies votes per option for a poll. Options come back ordered
// by option id ascending, with a zero count for options nobody voted for.
func (a *Aggregator) Snapshot(pollID string) ([]models.OptionCount, error) {
	rows, err := a.db.Query(`
		SELECT o.id, o.text, COUNT(v.id)
		FROM poll_option o
		LEFT JOIN vote v ON v.option_id = o.id
		WHERE o.poll_id = $1
		GROUP BY o.id, o.text
		ORDER BY o.id
	`, pollID)
	if err != nil {
		return nil, apperr.Internal("failed to query results", err)
	}
	defer rows.Close()

	results := []models.OptionCount{}
	for rows.Next() {
		var oc models.OptionCount
		if err := rows.Scan(&oc.ID, &oc.Text, &oc.Count); err != nil {
			return nil, apperr.Internal("failed to scan result row", err)
		}
		results = append(results, oc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to read result rows", err)
	}

	return results, nil
}
