// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and admin bootstrap.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes. The DDL sticks to the subset both sqlite and postgres accept.

# Tables

  - app_user: Accounts with MEMBER/ADMIN role
  - poll: Question and lifecycle state (published, closed, schedule)
  - poll_option: Voting options per poll
  - vote: One ballot per user per poll

# Relationships

	app_user 1──* poll
	poll 1──* poll_option
	poll 1──* vote
	app_user 1──* vote

vote carries UNIQUE (user_id, poll_id) - the authority for the
one-vote-per-user-per-poll invariant.

# Admin Bootstrap

EnsureAdmin creates an ADMIN account at startup when bootstrap
credentials are configured; a no-op if the account already exists:

	db.EnsureAdmin(conn, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
*/
package db
