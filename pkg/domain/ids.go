// Package domain holds shared identifier types and domain values.
//
// Identifiers originate in external community systems and are opaque strings,
// not UUIDs. Typed wrappers keep the compiler from letting a profile id leak
// into a slot that expects an account id.
package domain

import dErrors "refguard/pkg/domain-errors"

// UserID is the internal account identifier of a referee or referrer.
type UserID string

// ProfileID is the public pseudonymous community-profile identifier (CP id),
// distinct from the account id. Events carry profile ids; adapters resolve
// them to UserIDs before touching verification state.
type ProfileID string

// GroupID identifies a community group.
type GroupID string

// ActionID identifies a single countable action delivery (post id, message
// id, ...). Ledger idempotency keys on (UserID, ActionID).
type ActionID string

// AdminID identifies the operator performing an admin override.
type AdminID string

func (id UserID) String() string    { return string(id) }
func (id ProfileID) String() string { return string(id) }
func (id GroupID) String() string   { return string(id) }
func (id ActionID) String() string  { return string(id) }
func (id AdminID) String() string   { return string(id) }

func (id UserID) IsEmpty() bool    { return id == "" }
func (id ProfileID) IsEmpty() bool { return id == "" }
func (id GroupID) IsEmpty() bool   { return id == "" }
func (id ActionID) IsEmpty() bool  { return id == "" }
func (id AdminID) IsEmpty() bool   { return id == "" }

// ParseUserID constructs a UserID from external input.
//
// Usage: call from handlers/adapters when parsing requests or event payloads.
//
// Errors: returns CodeInvalidInput when the value is empty.
func ParseUserID(s string) (UserID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user id cannot be empty")
	}
	return UserID(s), nil
}

// ParseProfileID constructs a ProfileID from external input.
func ParseProfileID(s string) (ProfileID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "profile id cannot be empty")
	}
	return ProfileID(s), nil
}

// ParseActionID constructs an ActionID from external input.
func ParseActionID(s string) (ActionID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "action id cannot be empty")
	}
	return ActionID(s), nil
}

// ParseGroupID constructs a GroupID from external input.
func ParseGroupID(s string) (GroupID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "group id cannot be empty")
	}
	return GroupID(s), nil
}

// ParseAdminID constructs an AdminID from external input.
func ParseAdminID(s string) (AdminID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "admin id cannot be empty")
	}
	return AdminID(s), nil
}
