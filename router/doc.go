// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the live-polls API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, hub)

# Endpoints

Health:

	GET /health

Auth (public):

	POST /auth/register - Create a member account
	POST /auth/login    - Exchange credentials for a token

Polls (public reads):

	GET /polls              - Published polls, paginated, q= search
	GET /polls/{id}         - One poll with live counts
	GET /polls/{id}/events  - Server-sent event stream

Polls (bearer token required):

	POST   /polls                           - Create poll
	POST   /polls/{id}/vote                 - Cast or move a ballot
	POST   /polls/{id}/publish              - Publish now (creator/admin)
	POST   /polls/{id}/close                - Close voting (admin)
	PUT    /polls/{id}                      - Edit poll (creator/admin)
	DELETE /polls/{id}                      - Delete poll (creator/admin)
	PUT    /polls/{id}/options/{optionId}   - Rename option
	DELETE /polls/{id}/options/{optionId}   - Remove option and its votes

Admin (bearer token, ADMIN role):

	GET /polls/{id}/voters - Who voted for what
	GET /admin/polls       - Every poll, unpublished included

# Middleware

Public routes get request logging; mutating routes additionally go
through RequireUser, which validates the bearer token and loads the
caller's user row into the request context.
*/
package router
