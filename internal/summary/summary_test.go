package summary_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/remylog/internal/model"
	"github.com/Tiliavir/remylog/internal/session"
	"github.com/Tiliavir/remylog/internal/summary"
	"github.com/Tiliavir/remylog/internal/timecalc"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func mustDay(t *testing.T, s string) timecalc.Day {
	t.Helper()
	d, err := timecalc.ParseDay(s)
	require.NoError(t, err)
	return d
}

func TestSummarize_NapExample(t *testing.T) {
	events := []model.Event{
		{ID: 1, Type: model.NapStart, Time: mustTime(t, "2025-01-01T13:00:00Z")},
		{ID: 2, Type: model.NapEnd, Time: mustTime(t, "2025-01-01T14:30:00Z")},
	}
	sessions := session.ExtractAll(events)
	require.Len(t, sessions[model.Nap], 1)

	got := summary.Summarize(events, sessions, mustDay(t, "2025-01-01"), time.UTC)
	assert.Equal(t, "1h 30m", got.NapText)
	assert.Equal(t, 90, got.NapMinutes)
	assert.Equal(t, "0h 0m", got.WalkText)
}

func TestSummarize_SessionAcrossMidnightIsClipped(t *testing.T) {
	events := []model.Event{
		{ID: 1, Type: model.NapStart, Time: mustTime(t, "2025-01-01T23:30:00Z")},
		{ID: 2, Type: model.NapEnd, Time: mustTime(t, "2025-01-02T00:30:00Z")},
	}
	sessions := session.ExtractAll(events)

	d1 := summary.Summarize(events, sessions, mustDay(t, "2025-01-01"), time.UTC)
	d2 := summary.Summarize(events, sessions, mustDay(t, "2025-01-02"), time.UTC)
	other := summary.Summarize(events, sessions, mustDay(t, "2025-01-03"), time.UTC)

	assert.Equal(t, 30, d1.NapMinutes, "23:30 to 23:59:59 rounds to 30 minutes")
	assert.Equal(t, 30, d2.NapMinutes)
	assert.Zero(t, other.NapDuration)
	assert.Equal(t, "0h 0m", other.NapText)
}

func TestSummarize_UsesLocalDayBoundaries(t *testing.T) {
	// UTC+2: the walk runs 23:00-01:00 local across the 1st/2nd.
	loc := time.FixedZone("EET", 2*3600)
	events := []model.Event{
		{ID: 1, Type: model.WalkStart, Time: mustTime(t, "2025-06-01T21:00:00Z")},
		{ID: 2, Type: model.WalkEnd, Time: mustTime(t, "2025-06-01T23:00:00Z")},
		{ID: 3, Type: model.Meal, Time: mustTime(t, "2025-06-01T22:30:00Z")},
	}
	sessions := session.ExtractAll(events)

	d1 := summary.Summarize(events, sessions, mustDay(t, "2025-06-01"), loc)
	d2 := summary.Summarize(events, sessions, mustDay(t, "2025-06-02"), loc)

	assert.Equal(t, "1h 0m", d1.WalkText)
	assert.Equal(t, "1h 0m", d2.WalkText)
	assert.Zero(t, d1.MealCount)
	assert.Equal(t, 1, d2.MealCount, "00:30 local belongs to the 2nd")
}

func TestSummarize_Counts(t *testing.T) {
	events := []model.Event{
		{ID: 1, Type: model.Meal, Time: mustTime(t, "2025-01-01T08:00:00Z")},
		{ID: 2, Type: model.Meal, Time: mustTime(t, "2025-01-01T18:00:00Z")},
		{ID: 3, Type: model.Poop, Time: mustTime(t, "2025-01-01T09:00:00Z")},
		{ID: 4, Type: model.Wee, Time: mustTime(t, "2025-01-01T09:05:00Z")},
		{ID: 5, Type: model.Meal, Time: mustTime(t, "2025-01-02T08:00:00Z")},
	}
	got := summary.Summarize(events, session.ExtractAll(events), mustDay(t, "2025-01-01"), time.UTC)
	assert.Equal(t, 2, got.MealCount)
	assert.Equal(t, 1, got.PoopCount)
}

func TestSummarize_SumsSessionsAndRoundsOnce(t *testing.T) {
	// Two 20m30s naps: 41 minutes total, not 20+20 or 21+21.
	events := []model.Event{
		{ID: 1, Type: model.NapStart, Time: mustTime(t, "2025-01-01T10:00:00Z")},
		{ID: 2, Type: model.NapEnd, Time: mustTime(t, "2025-01-01T10:20:30Z")},
		{ID: 3, Type: model.NapStart, Time: mustTime(t, "2025-01-01T12:00:00Z")},
		{ID: 4, Type: model.NapEnd, Time: mustTime(t, "2025-01-01T12:20:30Z")},
	}
	got := summary.Summarize(events, session.ExtractAll(events), mustDay(t, "2025-01-01"), time.UTC)
	assert.Equal(t, 41, got.NapMinutes)
	assert.Equal(t, "0h 41m", got.NapText)
}

func TestGroupByDay(t *testing.T) {
	events := []model.Event{
		{ID: 1, Type: model.Meal, Time: mustTime(t, "2025-01-01T08:00:00Z")},
		{ID: 2, Type: model.Wee, Time: mustTime(t, "2025-01-02T08:00:00Z")},
		{ID: 3, Type: model.Poop, Time: mustTime(t, "2025-01-01T20:00:00Z")},
	}
	groups := summary.GroupByDay(events, time.UTC)
	require.Len(t, groups, 2)

	assert.Equal(t, "2025-01-02", groups[0].Day.String())
	assert.Equal(t, "2025-01-01", groups[1].Day.String())
	require.Len(t, groups[1].Events, 2)
	assert.Equal(t, int64(3), groups[1].Events[0].ID, "newest first within a day")
	assert.Equal(t, int64(1), groups[1].Events[1].ID)
}

func TestBuild_Idempotent(t *testing.T) {
	events := []model.Event{
		{ID: 4, Type: model.NapEnd, Time: mustTime(t, "2025-01-02T00:30:00Z")},
		{ID: 3, Type: model.NapStart, Time: mustTime(t, "2025-01-01T23:30:00Z")},
		{ID: 2, Type: model.Meal, Time: mustTime(t, "2025-01-01T12:00:00Z")},
		{ID: 1, Type: model.WalkStart, Time: mustTime(t, "2025-01-01T07:00:00Z")},
	}
	snapshot := append([]model.Event(nil), events...)

	first := summary.Build(events, time.UTC)
	second := summary.Build(events, time.UTC)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, events, "input must not be reordered")
	require.Len(t, first, 2)
	assert.Equal(t, 30, first[0].Summary.NapMinutes)
	assert.Equal(t, 30, first[1].Summary.NapMinutes)
	assert.Equal(t, 1, first[1].Summary.MealCount)
}

func TestRange_IncludesEmptyDays(t *testing.T) {
	events := []model.Event{
		{ID: 1, Type: model.Meal, Time: mustTime(t, "2025-01-03T12:00:00Z")},
	}
	got := summary.Range(events, mustDay(t, "2025-01-01"), mustDay(t, "2025-01-03"), time.UTC)
	require.Len(t, got, 3)
	assert.Equal(t, "2025-01-01", got[0].Day.String())
	assert.Zero(t, got[0].MealCount)
	assert.Equal(t, 1, got[2].MealCount)
}
