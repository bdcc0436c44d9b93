// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package policy holds the permission rules for every entity kind in one
strategy table.

A check is a pure function of (actor, resource):

	if !policy.CanWrite(actor, policy.Resource{Kind: policy.KindResult, Locked: locked, Approved: approved}) {
		// 403
	}

# Rules

  - Everything is publicly readable.
  - Results and partials: any named actor may create; edits are blocked once
    the owning competition is locked or the result approved, unless the
    actor is an admin.
  - Records: maintained by the records engine; only admins may approve or
    delete rows.
  - Competitions: named actors create, edits blocked by the lock flag.
  - Events and athletes: admin managed.

Unknown kinds are always denied.
*/
package policy
