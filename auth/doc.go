// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides JWT and password hashing utilities.

# Bearer Tokens

Tokens are HS256-signed JWTs valid for seven days:

	token, err := auth.GenerateToken(user, secret)
	userID, err := auth.ParseToken(token, secret)

Claims carry sub (user id), email, role, iat, and exp. The role claim is
informational only; the user row in the database remains the authority
on every request.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(hash, password)
*/
package auth
