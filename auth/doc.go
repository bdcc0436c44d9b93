// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key generation and validation.

# Admin Keys

Admin keys are deterministic HMAC-SHA256 digests of an actor name, keyed by
the server's ADMIN_KEY_SALT. They are issued out of band to federation staff
and presented on privileged requests via the X-Admin-Key header together
with the X-Actor name:

	key := auth.GenerateAdminKey("secretary", cfg.AdminKeySalt)
	err := auth.ValidateAdminKey("secretary", key, cfg.AdminKeySalt)

Validation uses constant-time comparison. An invalid key returns
ErrInvalidAdminKey; the handlers translate that to 403.

Full account management is intentionally out of scope for this service.
*/
package auth
