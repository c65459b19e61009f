// Package session pairs start and end events of the same activity into
// sessions.
package session

import (
	"slices"
	"time"

	"github.com/Tiliavir/remylog/internal/model"
)

// Session is a closed interval of a paired activity. End is always after Start.
type Session struct {
	Kind  model.Kind `json:"kind"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
}

// Duration returns the length of the session.
func (s Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Overlap returns how much of s falls inside [from, to]. It is zero when the
// intervals do not intersect.
func (s Session) Overlap(from, to time.Time) time.Duration {
	start, end := s.Start, s.End
	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// Set holds the sessions of every paired kind, each in ascending order.
type Set map[model.Kind][]Session

type pairState int

const (
	idle pairState = iota
	awaitingEnd
)

// pairer is the single-slot pairing state machine. A start always replaces
// the pending start; an end only closes it when strictly later.
type pairer struct {
	kind         model.Kind
	state        pairState
	pendingStart time.Time
}

func (p *pairer) start(t time.Time) {
	p.state = awaitingEnd
	p.pendingStart = t
}

func (p *pairer) end(t time.Time) (Session, bool) {
	if p.state != awaitingEnd || !t.After(p.pendingStart) {
		return Session{}, false
	}
	s := Session{Kind: p.kind, Start: p.pendingStart, End: t}
	p.state = idle
	p.pendingStart = time.Time{}
	return s, true
}

// Extract returns the sessions of kind found in events. Events may be in any
// order and of any type; only kind's start and end labels are considered.
func Extract(events []model.Event, kind model.Kind) []Session {
	relevant := make([]model.Event, 0, len(events))
	for _, e := range events {
		if k, _, ok := e.Type.Pairing(); ok && k == kind {
			relevant = append(relevant, e)
		}
	}
	slices.SortStableFunc(relevant, model.ByTimeAsc)

	p := pairer{kind: kind}
	var sessions []Session
	for _, e := range relevant {
		if _, start, _ := e.Type.Pairing(); start {
			p.start(e.Time)
			continue
		}
		if s, ok := p.end(e.Time); ok {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// ExtractAll runs Extract for every kind in model.PairedKinds.
func ExtractAll(events []model.Event) Set {
	set := make(Set, len(model.PairedKinds))
	for _, kind := range model.PairedKinds {
		set[kind] = Extract(events, kind)
	}
	return set
}
