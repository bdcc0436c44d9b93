// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package records implements record detection for competition results.
//
// Whenever a result or a partial value is saved, CheckResult or CheckPartial
// recomputes the set of unapproved record candidates for it: existing
// candidates for the result are deleted and then recreated against the
// current state of the result, the athlete's eligible categories and the
// applicable record levels. Approved records are never created or removed
// here; they change only through the approval cascade.
//
// A record candidate is created for every (record level, category) pair
// where no current record with a better value stands in the way. What
// counts as better is controlled by the same-value policy in the
// configuration: under the strict default an equal value blocks unless it
// was shot on the same day, while equal values are otherwise allowed except
// for repeats by the same athlete or team.
//
// CascadeApproval runs when an official approves a candidate. It closes
// lower-valued approved records in the same group by setting their end date
// and deletes lower-valued candidates, so at most the best value per group
// remains open.
package records
