// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: name, email, password
  - LoginRequest: email, password
  - CreatePollRequest: question, options, optional publishAt
  - EditPollRequest: partial update; options (when present) replaces the set
  - CastVoteRequest: optionId
  - UpdateOptionRequest: text

# Response Types

Types for JSON responses:

  - AuthResponse: user, token
  - VoteResponse: pollId, results
  - ListPollsResponse: total, page, limit, polls
  - DeleteResponse: success
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - User: account with role; the password hash never serializes
  - UserRef: public shape of a user embedded in other payloads
  - Poll: question and lifecycle state (published, closed, schedule)
  - Option: voting option with text
  - Vote: one member's current ballot on a poll
  - OptionCount: one entry of a result snapshot
  - PollSummary: poll with creator and per-option counts
  - VoterEntry: one row of the admin voters listing

# Constants

Roles:

	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"

All JSON uses camelCase field names.
*/
package models
