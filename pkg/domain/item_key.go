package domain

import dErrors "refguard/pkg/domain-errors"

// ItemKey identifies one verification checklist item.
// Invariant: the value must be one of the six supported items.
//
// Usage: construct via ParseItemKey at trust boundaries; direct casting
// bypasses validation.
type ItemKey string

const (
	ItemForumPosts    ItemKey = "forumPosts3"
	ItemForumComments ItemKey = "forumComments3"
	ItemGroupJoined   ItemKey = "groupJoined"
	ItemGroupMessages ItemKey = "groupMessages3"
	ItemInteractions  ItemKey = "interactions5"
	ItemAccountAge    ItemKey = "accountAge7Days"
)

// EventItemKeys lists the items advanced by external events, in a stable
// order. accountAge7Days is excluded: it is computed from signupDate at
// completion-check time, never event-driven.
var EventItemKeys = []ItemKey{
	ItemForumPosts,
	ItemForumComments,
	ItemGroupJoined,
	ItemGroupMessages,
	ItemInteractions,
}

// itemThresholds is the single source of truth for counter targets.
// groupJoined and accountAge7Days are boolean gates with threshold 1.
var itemThresholds = map[ItemKey]int{
	ItemForumPosts:    3,
	ItemForumComments: 3,
	ItemGroupJoined:   1,
	ItemGroupMessages: 3,
	ItemInteractions:  5,
	ItemAccountAge:    1,
}

// Threshold returns the completion target for the item, or 0 for unknown keys.
func (k ItemKey) Threshold() int {
	return itemThresholds[k]
}

// String returns the key as its underlying string value.
func (k ItemKey) String() string {
	return string(k)
}

// IsValid reports whether the key names a supported checklist item.
func (k ItemKey) IsValid() bool {
	_, ok := itemThresholds[k]
	return ok
}

// ParseItemKey constructs an ItemKey from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseItemKey(s string) (ItemKey, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "item key cannot be empty")
	}
	k := ItemKey(s)
	if !k.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid item key")
	}
	return k, nil
}
