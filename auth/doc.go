// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

/*
Package auth provides admin authentication and ID generation utilities.

# Admin Credentials

Admins live in the admins table with a bcrypt hash of their password:

	authn := auth.NewAuthenticator(db)
	admin, err := authn.Authenticate(ctx, "admin", "secret")

Unknown usernames and wrong passwords both return an UNAUTHORIZED error.
EnsureAdmin bootstraps an admin at startup and is a no-op when the username
is already taken.

# Bearer Tokens

A successful login is exchanged for an HS256 JWT:

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	token, expiresAt, err := issuer.Issue(admin.Username)
	username, err := issuer.Verify(token)

The token subject is the admin username.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
