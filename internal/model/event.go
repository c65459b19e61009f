package model

import (
	"errors"
	"strings"
	"time"
)

// ErrNoActivity is returned when an event is logged without an activity type.
var ErrNoActivity = errors.New("no activity type selected")

// ActivityType is the label of a logged activity, e.g. "Meal" or "Nap (start)".
type ActivityType string

// Kind names an activity that is logged as a start/end pair, e.g. "Nap".
type Kind string

const (
	Meal      ActivityType = "Meal"
	Poop      ActivityType = "Poop"
	Wee       ActivityType = "Wee"
	WalkStart ActivityType = "Walk (start)"
	WalkEnd   ActivityType = "Walk (end)"
	NapStart  ActivityType = "Nap (start)"
	NapEnd    ActivityType = "Nap (end)"
	Awake     ActivityType = "Awake"
)

const (
	Nap  Kind = "Nap"
	Walk Kind = "Walk"
)

const (
	startSuffix = " (start)"
	endSuffix   = " (end)"
)

// Activity is one entry of the fixed label set offered by the UI.
type Activity struct {
	Type  ActivityType
	Emoji string
}

// Activities is the label set in display order.
var Activities = []Activity{
	{Meal, "🥣"},
	{Poop, "💩"},
	{Wee, "🚽"},
	{WalkStart, "🐾"},
	{WalkEnd, "🐾"},
	{NapStart, "😴"},
	{NapEnd, "😴"},
	{Awake, "🌞"},
}

// PairedKinds lists the activities tracked as sessions.
var PairedKinds = []Kind{Nap, Walk}

// Event is a single logged activity. Events are never mutated after creation.
type Event struct {
	Type  ActivityType `json:"type" yaml:"type"`
	Time  time.Time    `json:"time" yaml:"time"`
	Notes string       `json:"notes" yaml:"notes,omitempty"`
	ID    int64        `json:"id" yaml:"id"`
}

// NewEvent carries the caller-supplied fields of an event before the store
// assigns an id.
type NewEvent struct {
	Type  ActivityType `json:"type"`
	Time  time.Time    `json:"time"`
	Notes string       `json:"notes"`
}

// Validate rejects events without an activity type.
func (n NewEvent) Validate() error {
	if strings.TrimSpace(string(n.Type)) == "" {
		return ErrNoActivity
	}
	return nil
}

// Known reports whether t is part of the fixed label set.
func (t ActivityType) Known() bool {
	for _, a := range Activities {
		if a.Type == t {
			return true
		}
	}
	return false
}

// Emoji returns the display emoji for t, or "" for unknown labels.
func (t ActivityType) Emoji() string {
	for _, a := range Activities {
		if a.Type == t {
			return a.Emoji
		}
	}
	return ""
}

// Pairing splits a start/end label into its kind. ok is false for
// instantaneous activities.
func (t ActivityType) Pairing() (kind Kind, start bool, ok bool) {
	s := string(t)
	switch {
	case strings.HasSuffix(s, startSuffix):
		return Kind(strings.TrimSuffix(s, startSuffix)), true, true
	case strings.HasSuffix(s, endSuffix):
		return Kind(strings.TrimSuffix(s, endSuffix)), false, true
	}
	return "", false, false
}

// ByTimeAsc orders events oldest first.
func ByTimeAsc(a, b Event) int { return a.Time.Compare(b.Time) }

// ByTimeDesc orders events newest first.
func ByTimeDesc(a, b Event) int { return b.Time.Compare(a.Time) }
