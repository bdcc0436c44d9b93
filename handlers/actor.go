// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/petrikoski/recordbook/auth"
	"github.com/petrikoski/recordbook/policy"
)

// actorFrom resolves the acting identity from the X-Actor header. The actor
// is an admin only when X-Admin-Key carries a valid key for that name.
func actorFrom(r *http.Request, salt string) policy.Actor {
	name := r.Header.Get("X-Actor")
	if name == "" {
		return policy.Actor{}
	}
	adminKey := r.Header.Get("X-Admin-Key")
	admin := adminKey != "" && auth.ValidateAdminKey(name, adminKey, salt) == nil
	return policy.Actor{Name: name, Admin: admin}
}
