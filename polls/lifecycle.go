// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pollstream/live-polls/apperr"
	"github.com/pollstream/live-polls/broadcast"
	"github.com/pollstream/live-polls/models"
)

// Lifecycle owns poll creation, publication, closing, editing, option
// mutation, and deletion, including the ownership and role checks.
type Lifecycle struct {
	db  *sql.DB
	agg *Aggregator
	hub *broadcast.Hub
}

func NewLifecycle(db *sql.DB, agg *Aggregator, hub *broadcast.Hub) *Lifecycle {
	return &Lifecycle{db: db, agg: agg, hub: hub}
}

// CreatePoll creates a poll with its option set. The poll is published
// immediately unless publishAt is in the future, in which case it waits
// for the scheduler.
func (s *Lifecycle) CreatePoll(creatorID, question string, optionTexts []string, publishAt *time.Time) (models.PollSummary, error) {
	if strings.TrimSpace(question) == "" {
		return models.PollSummary{}, apperr.Validation("question is required")
	}

	texts := filterTexts(optionTexts)
	if len(texts) < 2 {
		return models.PollSummary{}, apperr.Validation("at least 2 non-empty options required")
	}

	now := time.Now()
	isPublished := publishAt == nil || !publishAt.After(now)
	pollID := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return models.PollSummary{}, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO poll (id, question, is_published, is_closed, publish_at, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, $4, $5, $6, $7)
	`, pollID, question, isPublished, nullableTime(publishAt), creatorID, now, now)
	if err != nil {
		return models.PollSummary{}, apperr.Internal("failed to insert poll", err)
	}

	for _, text := range texts {
		_, err = tx.Exec(`
			INSERT INTO poll_option (id, poll_id, text)
			VALUES ($1, $2, $3)
		`, uuid.NewString(), pollID, text)
		if err != nil {
			return models.PollSummary{}, apperr.Internal("failed to insert option", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.PollSummary{}, apperr.Internal("failed to commit poll", err)
	}

	slog.Info("poll created", "poll_id", pollID, "creator_id", creatorID, "published", isPublished)

	return s.summarize(pollID)
}

// PublishNow publishes a poll immediately. Publishing an already-published
// poll is a no-op. Requires ownership or ADMIN.
func (s *Lifecycle) PublishNow(pollID string, actor models.User) (models.Poll, error) {
	poll, err := getPoll(s.db, pollID)
	if err != nil {
		return models.Poll{}, err
	}
	if !canManage(actor, poll) {
		return models.Poll{}, apperr.Forbidden("not the poll creator")
	}
	if poll.IsPublished {
		return poll, nil
	}

	if err := s.publish(pollID); err != nil {
		return models.Poll{}, err
	}

	slog.Info("poll published", "poll_id", pollID, "actor_id", actor.ID)

	return getPoll(s.db, pollID)
}

// DuePolls returns the ids of unpublished polls whose publish time has
// passed. The time comparison happens here rather than in SQL so both
// drivers behave identically.
func (s *Lifecycle) DuePolls(now time.Time) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT id, publish_at FROM poll
		WHERE is_published = FALSE AND publish_at IS NOT NULL
	`)
	if err != nil {
		return nil, apperr.Internal("failed to query scheduled polls", err)
	}
	defer rows.Close()

	var due []string
	for rows.Next() {
		var id string
		var publishAt time.Time
		if err := rows.Scan(&id, &publishAt); err != nil {
			return nil, apperr.Internal("failed to scan scheduled poll", err)
		}
		if !publishAt.After(now) {
			due = append(due, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to read scheduled polls", err)
	}

	return due, nil
}

// PublishScheduled is the scheduler's publish path. The guarded UPDATE
// makes publication happen at most once even if ticks ever overlapped.
func (s *Lifecycle) PublishScheduled(pollID string) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE poll SET is_published = TRUE, updated_at = $1
		WHERE id = $2 AND is_published = FALSE
	`, time.Now(), pollID)
	if err != nil {
		return false, apperr.Internal("failed to publish poll", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Internal("failed to read publish result", err)
	}
	if n == 0 {
		return false, nil
	}

	s.broadcastResults(pollID)
	slog.Info("poll auto-published", "poll_id", pollID)

	return true, nil
}

// ClosePoll closes voting on a poll. ADMIN only.
func (s *Lifecycle) ClosePoll(pollID string, actor models.User) (models.Poll, error) {
	if actor.Role != models.RoleAdmin {
		return models.Poll{}, apperr.Forbidden("admin only")
	}

	poll, err := getPoll(s.db, pollID)
	if err != nil {
		return models.Poll{}, err
	}

	_, err = s.db.Exec(`
		UPDATE poll SET is_closed = TRUE, updated_at = $1 WHERE id = $2
	`, time.Now(), pollID)
	if err != nil {
		return models.Poll{}, apperr.Internal("failed to close poll", err)
	}

	s.hub.Publish(pollID, broadcast.Event{
		Type:   broadcast.EventPollClosed,
		PollID: pollID,
	})

	slog.Info("poll closed", "poll_id", pollID, "actor_id", actor.ID)

	poll.IsClosed = true
	return poll, nil
}

// EditPoll updates poll fields. Requires ownership or ADMIN. A supplied
// option list replaces the entire option set: existing votes and options
// are deleted first, then the new options are created in the given order
// with blank entries discarded. This is a destructive replace, not a merge.
func (s *Lifecycle) EditPoll(pollID string, actor models.User, req models.EditPollRequest) (models.PollSummary, error) {
	poll, err := getPoll(s.db, pollID)
	if err != nil {
		return models.PollSummary{}, err
	}
	if !canManage(actor, poll) {
		return models.PollSummary{}, apperr.Forbidden("not the poll creator")
	}

	question := poll.Question
	if req.Question != nil {
		question = *req.Question
	}
	isPublished := poll.IsPublished
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}
	publishAt := poll.PublishAt
	if req.PublishAt != nil {
		publishAt = req.PublishAt
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.PollSummary{}, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE poll SET question = $1, is_published = $2, publish_at = $3, updated_at = $4
		WHERE id = $5
	`, question, isPublished, nullableTime(publishAt), time.Now(), pollID)
	if err != nil {
		return models.PollSummary{}, apperr.Internal("failed to update poll", err)
	}

	if req.Options != nil {
		if _, err = tx.Exec(`DELETE FROM vote WHERE poll_id = $1`, pollID); err != nil {
			return models.PollSummary{}, apperr.Internal("failed to delete votes", err)
		}
		if _, err = tx.Exec(`DELETE FROM poll_option WHERE poll_id = $1`, pollID); err != nil {
			return models.PollSummary{}, apperr.Internal("failed to delete options", err)
		}
		for _, text := range filterTexts(req.Options) {
			_, err = tx.Exec(`
				INSERT INTO poll_option (id, poll_id, text)
				VALUES ($1, $2, $3)
			`, uuid.NewString(), pollID, text)
			if err != nil {
				return models.PollSummary{}, apperr.Internal("failed to insert option", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.PollSummary{}, apperr.Internal("failed to commit edit", err)
	}

	slog.Info("poll edited", "poll_id", pollID, "actor_id", actor.ID, "options_replaced", req.Options != nil)

	return s.summarize(pollID)
}

// UpdateOption renames one option. Requires ownership or ADMIN.
func (s *Lifecycle) UpdateOption(pollID, optionID string, actor models.User, text string) (models.Option, error) {
	poll, err := getPoll(s.db, pollID)
	if err != nil {
		return models.Option{}, err
	}
	if !canManage(actor, poll) {
		return models.Option{}, apperr.Forbidden("not the poll creator")
	}
	if strings.TrimSpace(text) == "" {
		return models.Option{}, apperr.Validation("text is required")
	}

	opt, err := s.getOption(pollID, optionID)
	if err != nil {
		return models.Option{}, err
	}

	_, err = s.db.Exec(`UPDATE poll_option SET text = $1 WHERE id = $2`, text, optionID)
	if err != nil {
		return models.Option{}, apperr.Internal("failed to update option", err)
	}

	slog.Info("option updated", "poll_id", pollID, "option_id", optionID)

	opt.Text = text
	return opt, nil
}

// DeleteOption removes one option and every vote referencing it, then
// broadcasts the recomputed snapshot. Requires ownership or ADMIN.
func (s *Lifecycle) DeleteOption(pollID, optionID string, actor models.User) ([]models.OptionCount, error) {
	poll, err := getPoll(s.db, pollID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, poll) {
		return nil, apperr.Forbidden("not the poll creator")
	}

	if _, err := s.getOption(pollID, optionID); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err = tx.Exec(`DELETE FROM vote WHERE option_id = $1`, optionID); err != nil {
		return nil, apperr.Internal("failed to delete votes", err)
	}
	if _, err = tx.Exec(`DELETE FROM poll_option WHERE id = $1`, optionID); err != nil {
		return nil, apperr.Internal("failed to delete option", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit option delete", err)
	}

	results, err := s.agg.Snapshot(pollID)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(pollID, broadcast.Event{
		Type:    broadcast.EventResultsUpdated,
		PollID:  pollID,
		Results: results,
	})

	slog.Info("option deleted", "poll_id", pollID, "option_id", optionID, "actor_id", actor.ID)

	return results, nil
}

// DeletePoll removes a poll with all its options and votes, then
// broadcasts pollDeleted. Requires ownership or ADMIN.
func (s *Lifecycle) DeletePoll(pollID string, actor models.User) error {
	poll, err := getPoll(s.db, pollID)
	if err != nil {
		return err
	}
	if !canManage(actor, poll) {
		return apperr.Forbidden("not the poll creator")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err = tx.Exec(`DELETE FROM vote WHERE poll_id = $1`, pollID); err != nil {
		return apperr.Internal("failed to delete votes", err)
	}
	if _, err = tx.Exec(`DELETE FROM poll_option WHERE poll_id = $1`, pollID); err != nil {
		return apperr.Internal("failed to delete options", err)
	}
	if _, err = tx.Exec(`DELETE FROM poll WHERE id = $1`, pollID); err != nil {
		return apperr.Internal("failed to delete poll", err)
	}
	if err := tx.Commit(); err != nil {
		return apperr.Internal("failed to commit poll delete", err)
	}

	s.hub.Publish(pollID, broadcast.Event{
		Type:   broadcast.EventPollDeleted,
		PollID: pollID,
	})

	slog.Info("poll deleted", "poll_id", pollID, "actor_id", actor.ID)

	return nil
}

// GetPoll returns one poll with creator and live counts.
func (s *Lifecycle) GetPoll(pollID string) (models.PollSummary, error) {
	return s.summarize(pollID)
}

// ListPublished returns a page of published polls, newest first, with an
// optional case-insensitive question search.
func (s *Lifecycle) ListPublished(query string, page, limit int) (models.ListPollsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	pattern := "%" + strings.ToLower(query) + "%"

	var total int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM poll
		WHERE is_published = TRUE AND LOWER(question) LIKE $1
	`, pattern).Scan(&total)
	if err != nil {
		return models.ListPollsResponse{}, apperr.Internal("failed to count polls", err)
	}

	ids, err := s.listPollIDs(`
		SELECT id FROM poll
		WHERE is_published = TRUE AND LOWER(question) LIKE $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, pattern, limit, (page-1)*limit)
	if err != nil {
		return models.ListPollsResponse{}, err
	}

	summaries, err := s.summarizeAll(ids)
	if err != nil {
		return models.ListPollsResponse{}, err
	}

	return models.ListPollsResponse{
		Total: total,
		Page:  page,
		Limit: limit,
		Polls: summaries,
	}, nil
}

// ListAll returns every poll, unpublished included. ADMIN only.
func (s *Lifecycle) ListAll(actor models.User) ([]models.PollSummary, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperr.Forbidden("admin only")
	}

	ids, err := s.listPollIDs(`SELECT id FROM poll ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}

	return s.summarizeAll(ids)
}

// ListVoters returns who voted for what on a poll. ADMIN only.
func (s *Lifecycle) ListVoters(pollID string, actor models.User) ([]models.VoterEntry, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperr.Forbidden("admin only")
	}
	if _, err := getPoll(s.db, pollID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT v.id, v.created_at, u.id, u.name, u.email, o.id, o.poll_id, o.text
		FROM vote v
		JOIN app_user u ON u.id = v.user_id
		JOIN poll_option o ON o.id = v.option_id
		WHERE v.poll_id = $1
		ORDER BY v.created_at
	`, pollID)
	if err != nil {
		return nil, apperr.Internal("failed to query voters", err)
	}
	defer rows.Close()

	voters := []models.VoterEntry{}
	for rows.Next() {
		var entry models.VoterEntry
		if err := rows.Scan(
			&entry.ID, &entry.CreatedAt,
			&entry.User.ID, &entry.User.Name, &entry.User.Email,
			&entry.Option.ID, &entry.Option.PollID, &entry.Option.Text,
		); err != nil {
			return nil, apperr.Internal("failed to scan voter row", err)
		}
		voters = append(voters, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to read voter rows", err)
	}

	return voters, nil
}

// publish flips is_published without an actor check; callers validate.
func (s *Lifecycle) publish(pollID string) error {
	_, err := s.db.Exec(`
		UPDATE poll SET is_published = TRUE, updated_at = $1 WHERE id = $2
	`, time.Now(), pollID)
	if err != nil {
		return apperr.Internal("failed to publish poll", err)
	}
	s.broadcastResults(pollID)
	return nil
}

// broadcastResults pushes a fresh snapshot to the poll's topic; failures
// to compute the snapshot are logged, not surfaced, since the mutation
// has already committed.
func (s *Lifecycle) broadcastResults(pollID string) {
	results, err := s.agg.Snapshot(pollID)
	if err != nil {
		slog.Error("failed to compute snapshot for broadcast", "error", err, "poll_id", pollID)
		return
	}
	s.hub.Publish(pollID, broadcast.Event{
		Type:    broadcast.EventResultsUpdated,
		PollID:  pollID,
		Results: results,
	})
}

func (s *Lifecycle) getOption(pollID, optionID string) (models.Option, error) {
	var opt models.Option
	err := s.db.QueryRow(`
		SELECT id, poll_id, text FROM poll_option WHERE id = $1
	`, optionID).Scan(&opt.ID, &opt.PollID, &opt.Text)
	if err == sql.ErrNoRows {
		return models.Option{}, apperr.NotFound("option not found")
	}
	if err != nil {
		return models.Option{}, apperr.Internal("failed to query option", err)
	}
	if opt.PollID != pollID {
		return models.Option{}, apperr.NotFound("option not found")
	}
	return opt, nil
}

func (s *Lifecycle) listPollIDs(query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperr.Internal("failed to query polls", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Internal("failed to scan poll id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to read poll rows", err)
	}
	return ids, nil
}

func (s *Lifecycle) summarize(pollID string) (models.PollSummary, error) {
	poll, err := getPoll(s.db, pollID)
	if err != nil {
		return models.PollSummary{}, err
	}
	creator, err := getUserRef(s.db, poll.CreatorID)
	if err != nil {
		return models.PollSummary{}, err
	}
	results, err := s.agg.Snapshot(pollID)
	if err != nil {
		return models.PollSummary{}, err
	}
	return models.PollSummary{Poll: poll, Creator: creator, Options: results}, nil
}

func (s *Lifecycle) summarizeAll(ids []string) ([]models.PollSummary, error) {
	summaries := []models.PollSummary{}
	for _, id := range ids {
		summary, err := s.summarize(id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// filterTexts drops blank entries, preserving order.
func filterTexts(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
