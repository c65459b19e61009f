package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/remylog/internal/summary"
	"github.com/Tiliavir/remylog/internal/timecalc"
)

var (
	listToday bool
	listWeek  bool
	listAll   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged activities grouped by day",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show today's activities (default)")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's activities")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Show every day")
}

func runList(cmd *cobra.Command, args []string) error {
	now := time.Now().In(env.loc)

	events, err := env.store.List(cmd.Context())
	if err != nil {
		return storageErr(err)
	}

	var from, to timecalc.Day
	switch {
	case listAll:
	case listWeek:
		monday, sunday := timecalc.WeekRange(now)
		from, to = timecalc.DayOf(monday, env.loc), timecalc.DayOf(sunday, env.loc)
	default:
		from = timecalc.DayOf(now, env.loc)
		to = from
	}

	var reports []summary.DayReport
	for _, r := range summary.Build(events, env.loc) {
		if !from.IsZero() && (r.Day.Before(from) || to.Before(r.Day)) {
			continue
		}
		reports = append(reports, r)
	}

	printList(cmd.OutOrStdout(), reports)
	return nil
}

// printList prints each day's summary line followed by its events.
func printList(w io.Writer, reports []summary.DayReport) {
	if len(reports) == 0 {
		fmt.Fprintln(w, "No activities logged.")
		return
	}

	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := r.Day.Start(env.loc).Format("Monday, January 2, 2006")
		fmt.Fprintln(w, styleHeader.Render(title))
		fmt.Fprintln(w, styleDim.Render(summaryLine(r.Summary)))

		for _, e := range r.Events {
			line := fmt.Sprintf("%s  %s", e.Time.In(env.loc).Format("15:04"), eventLabel(e))
			if e.Notes != "" {
				line += "  (" + e.Notes + ")"
			}
			fmt.Fprintf(w, "%s  %s\n", line, styleDim.Render(fmt.Sprintf("#%d", e.ID)))
		}
	}
}

func summaryLine(s summary.DaySummary) string {
	return fmt.Sprintf("🍽️ Meals: %d · 💩 Poops: %d · 💤 Nap Time: %s · 🐾 Walk Time: %s",
		s.MealCount, s.PoopCount, s.NapText, s.WalkText)
}
