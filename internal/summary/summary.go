// Package summary buckets events by local calendar day and computes the
// per-day counts and session durations shown in the log.
package summary

import (
	"slices"
	"time"

	"github.com/Tiliavir/remylog/internal/model"
	"github.com/Tiliavir/remylog/internal/session"
	"github.com/Tiliavir/remylog/internal/timecalc"
)

// DaySummary holds the aggregates for one calendar day.
type DaySummary struct {
	Day          timecalc.Day  `json:"day"`
	MealCount    int           `json:"meal_count"`
	PoopCount    int           `json:"poop_count"`
	NapDuration  time.Duration `json:"-"`
	WalkDuration time.Duration `json:"-"`
	NapMinutes   int           `json:"nap_minutes"`
	WalkMinutes  int           `json:"walk_minutes"`
	NapText      string        `json:"nap_duration"`
	WalkText     string        `json:"walk_duration"`
}

// DayLog is the events of one day, newest first.
type DayLog struct {
	Day    timecalc.Day  `json:"day"`
	Events []model.Event `json:"events"`
}

// DayReport combines a day's events with its summary.
type DayReport struct {
	DayLog
	Summary DaySummary `json:"summary"`
}

// Summarize computes the summary of day. events may contain any days; only
// those whose local day equals day are counted. sessions should be extracted
// from the full event set so sessions crossing midnight are clipped rather
// than lost.
func Summarize(events []model.Event, sessions session.Set, day timecalc.Day, loc *time.Location) DaySummary {
	s := DaySummary{Day: day}
	for _, e := range events {
		if timecalc.DayOf(e.Time, loc) != day {
			continue
		}
		switch e.Type {
		case model.Meal:
			s.MealCount++
		case model.Poop:
			s.PoopCount++
		}
	}

	from, to := day.Start(loc), day.End(loc)
	s.NapDuration = clipped(sessions[model.Nap], from, to)
	s.WalkDuration = clipped(sessions[model.Walk], from, to)
	s.NapMinutes = timecalc.RoundMinutes(s.NapDuration)
	s.WalkMinutes = timecalc.RoundMinutes(s.WalkDuration)
	s.NapText = timecalc.FormatMinutes(s.NapMinutes)
	s.WalkText = timecalc.FormatMinutes(s.WalkMinutes)
	return s
}

func clipped(sessions []session.Session, from, to time.Time) time.Duration {
	var total time.Duration
	for _, s := range sessions {
		total += s.Overlap(from, to)
	}
	return total
}

// GroupByDay groups events by the local day of their own timestamp. Days are
// returned newest first and events within a day newest first.
func GroupByDay(events []model.Event, loc *time.Location) []DayLog {
	byDay := map[timecalc.Day][]model.Event{}
	for _, e := range events {
		d := timecalc.DayOf(e.Time, loc)
		byDay[d] = append(byDay[d], e)
	}

	logs := make([]DayLog, 0, len(byDay))
	for d, evs := range byDay {
		slices.SortStableFunc(evs, model.ByTimeDesc)
		logs = append(logs, DayLog{Day: d, Events: evs})
	}
	slices.SortFunc(logs, func(a, b DayLog) int { return b.Day.Compare(a.Day) })
	return logs
}

// Build groups events by day and summarises every group.
func Build(events []model.Event, loc *time.Location) []DayReport {
	sessions := session.ExtractAll(events)
	groups := GroupByDay(events, loc)

	reports := make([]DayReport, 0, len(groups))
	for _, g := range groups {
		reports = append(reports, DayReport{
			DayLog:  g,
			Summary: Summarize(events, sessions, g.Day, loc),
		})
	}
	return reports
}

// Range summarises every day in [from, to], oldest first, including days
// without events.
func Range(events []model.Event, from, to timecalc.Day, loc *time.Location) []DaySummary {
	sessions := session.ExtractAll(events)
	var out []DaySummary
	for d := from; !to.Before(d); d = d.AddDays(1) {
		out = append(out, Summarize(events, sessions, d, loc))
	}
	return out
}
