package service

import "errors"

// Sentinel errors surfaced to the front-end. None of them is fatal: the
// handler reports the condition to the initiating actor and the system
// stays in its previous valid state.
var (
	// ErrBanned is returned for any feature operation attempted by a
	// banned actor.
	ErrBanned = errors.New("actor is banned")

	// ErrNotFound is returned when the target gift no longer exists,
	// e.g. after a raced admin deletion.
	ErrNotFound = errors.New("gift not found")

	// ErrPermissionDenied is returned when a non-administrator attempts a
	// destructive or moderation operation.
	ErrPermissionDenied = errors.New("administrator capability required")

	// ErrSelfBan is returned when an administrator tries to ban
	// themselves. Distinct from ErrPermissionDenied on purpose.
	ErrSelfBan = errors.New("administrators cannot ban themselves")

	// ErrAlreadyJoined is returned when an actor joins a co-funded gift
	// they already contribute to. Reported, never silently overwritten.
	ErrAlreadyJoined = errors.New("already contributing to this gift")

	// ErrNoContribution is returned when an actor acts on a pledge they
	// do not hold.
	ErrNoContribution = errors.New("no contribution on this gift")

	ErrEmptyName     = errors.New("gift name must not be empty")
	ErrEmptyText     = errors.New("text must not be empty")
	ErrInvalidAmount = errors.New("amount must be a positive integer")
	ErrBadCategory   = errors.New("unknown gift category")
	ErrFactLength    = errors.New("fact text must be 5-500 characters long")
)
