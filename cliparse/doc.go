// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 4000)
  - DatabaseURL: sqlite path or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - JWTSecret: Secret for bearer token signing (required)
  - PublishInterval: Scheduler cadence (default: 1m)
  - AdminName/AdminEmail/AdminPassword: Optional bootstrap admin account

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	-publish-interval Scheduled publish check interval
	-jwt-secret       JWT signing secret (prefer env)

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	PUBLISH_INTERVAL → -publish-interval
	JWT_SECRET       → -jwt-secret

The admin bootstrap account is env-only: ADMIN_NAME, ADMIN_EMAIL,
ADMIN_PASSWORD. CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - JWT_SECRET must be provided
*/
package cliparse
