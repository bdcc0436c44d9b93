// Copyright (c) 2025 Petri Koski.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package policy

// Actor is the acting user identity, threaded explicitly through the write
// path for permission checks and audit logging.
type Actor struct {
	Name  string
	Admin bool
}

// Resource describes the entity a permission check applies to. Locked and
// Approved carry the locking state of the entity or its owning competition.
type Resource struct {
	Kind     string
	Locked   bool
	Approved bool
}

// Resource kinds
const (
	KindResult      = "result"
	KindPartial     = "partial"
	KindRecord      = "record"
	KindCompetition = "competition"
	KindEvent       = "event"
	KindAthlete     = "athlete"
)

type rule struct {
	read   func(Actor, Resource) bool
	write  func(Actor, Resource) bool
	create func(Actor) bool
}

func anyone(Actor, Resource) bool { return true }

func adminOnly(a Actor, _ Resource) bool { return a.Admin }

func named(a Actor) bool { return a.Name != "" }

func adminCreate(a Actor) bool { return a.Admin }

// Results and partials stay editable by their submitter until the owning
// competition is locked or the result approved; admins always can.
func unlessLocked(a Actor, r Resource) bool {
	if a.Admin {
		return true
	}
	return a.Name != "" && !r.Locked && !r.Approved
}

var rules = map[string]rule{
	KindResult:      {read: anyone, write: unlessLocked, create: named},
	KindPartial:     {read: anyone, write: unlessLocked, create: named},
	KindRecord:      {read: anyone, write: adminOnly, create: adminCreate},
	KindCompetition: {read: anyone, write: unlessLocked, create: named},
	KindEvent:       {read: anyone, write: adminOnly, create: named},
	KindAthlete:     {read: anyone, write: adminOnly, create: adminCreate},
}

// CanRead reports whether the actor may read the resource.
func CanRead(a Actor, r Resource) bool {
	rl, ok := rules[r.Kind]
	if !ok {
		return false
	}
	return rl.read(a, r)
}

// CanWrite reports whether the actor may mutate or delete the resource.
func CanWrite(a Actor, r Resource) bool {
	rl, ok := rules[r.Kind]
	if !ok {
		return false
	}
	return rl.write(a, r)
}

// CanCreate reports whether the actor may create a resource of the kind.
func CanCreate(a Actor, kind string) bool {
	rl, ok := rules[kind]
	if !ok {
		return false
	}
	return rl.create(a)
}
