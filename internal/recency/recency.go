// Package recency reports how long ago an activity was last logged.
package recency

import (
	"fmt"
	"time"

	"github.com/Tiliavir/remylog/internal/model"
	"github.com/Tiliavir/remylog/internal/timecalc"
)

// DefaultStaleAfter is the highlight threshold applied to Wee when no
// configuration overrides it.
const DefaultStaleAfter = 90 * time.Minute

// Report describes the most recent event of one type relative to a reference time.
type Report struct {
	Type           model.ActivityType `json:"type"`
	Found          bool               `json:"found"`
	Last           *model.Event       `json:"last,omitempty"`
	ElapsedMinutes int                `json:"elapsed_minutes"`
	Hours          int                `json:"hours"`
	Minutes        int                `json:"minutes"`
	Stale          bool               `json:"stale"`
}

// String renders the report as "1h 35m ago" or "no data".
func (r Report) String() string {
	if !r.Found {
		return "no data"
	}
	return fmt.Sprintf("%dh %dm ago", r.Hours, r.Minutes)
}

// Since finds the latest event of typ at or before now. A threshold of zero
// disables the stale flag.
func Since(events []model.Event, typ model.ActivityType, now time.Time, threshold time.Duration) Report {
	r := Report{Type: typ}

	var last *model.Event
	for i := range events {
		e := &events[i]
		if e.Type != typ || e.Time.After(now) {
			continue
		}
		if last == nil || e.Time.After(last.Time) {
			last = e
		}
	}
	if last == nil {
		return r
	}

	found := *last
	r.Found = true
	r.Last = &found
	r.ElapsedMinutes = timecalc.FloorMinutes(now.Sub(found.Time))
	r.Hours = r.ElapsedMinutes / 60
	r.Minutes = r.ElapsedMinutes % 60
	r.Stale = threshold > 0 && r.ElapsedMinutes > int(threshold/time.Minute)
	return r
}

// Reporter produces recency reports for a configured set of activity types.
type Reporter struct {
	// Tracked lists the types reported by All, in display order.
	Tracked []model.ActivityType
	// StaleAfter maps a type to its highlight threshold. Types without an
	// entry are never stale.
	StaleAfter map[model.ActivityType]time.Duration
}

// DefaultReporter tracks the instantaneous activities and flags Wee after 90 minutes.
func DefaultReporter() Reporter {
	return Reporter{
		Tracked:    []model.ActivityType{model.Wee, model.Poop, model.Meal},
		StaleAfter: map[model.ActivityType]time.Duration{model.Wee: DefaultStaleAfter},
	}
}

// Report returns the recency report of a single type.
func (rp Reporter) Report(events []model.Event, typ model.ActivityType, now time.Time) Report {
	return Since(events, typ, now, rp.StaleAfter[typ])
}

// All returns one report per tracked type.
func (rp Reporter) All(events []model.Event, now time.Time) []Report {
	out := make([]Report, 0, len(rp.Tracked))
	for _, typ := range rp.Tracked {
		out = append(out, rp.Report(events, typ, now))
	}
	return out
}
