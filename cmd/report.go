package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/remylog/internal/summary"
	"github.com/Tiliavir/remylog/internal/timecalc"
)

var (
	reportWeek   string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the per-day summary of a week",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportWeek, "week", "", "Any day of the week to report, YYYY-MM-DD (default: this week)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// weekReport is the json form of a report.
type weekReport struct {
	Week        string               `json:"week"`
	Days        []summary.DaySummary `json:"days"`
	MealCount   int                  `json:"meal_count"`
	PoopCount   int                  `json:"poop_count"`
	NapMinutes  int                  `json:"nap_minutes"`
	WalkMinutes int                  `json:"walk_minutes"`
}

func runReport(cmd *cobra.Command, args []string) error {
	ref := time.Now().In(env.loc)
	if reportWeek != "" {
		d, err := timecalc.ParseDay(reportWeek)
		if err != nil {
			return usageErr(err)
		}
		ref = d.Start(env.loc)
	}

	events, err := env.store.List(cmd.Context())
	if err != nil {
		return storageErr(err)
	}

	monday, sunday := timecalc.WeekRange(ref)
	rep := weekReport{
		Week: timecalc.ISOWeekLabel(ref),
		Days: summary.Range(events, timecalc.DayOf(monday, env.loc), timecalc.DayOf(sunday, env.loc), env.loc),
	}
	for _, d := range rep.Days {
		rep.MealCount += d.MealCount
		rep.PoopCount += d.PoopCount
		rep.NapMinutes += d.NapMinutes
		rep.WalkMinutes += d.WalkMinutes
	}

	w := cmd.OutOrStdout()
	switch reportFormat {
	case "csv":
		fmt.Fprintln(w, "date,meals,poops,nap_minutes,walk_minutes")
		for _, d := range rep.Days {
			fmt.Fprintf(w, "%s,%d,%d,%d,%d\n", d.Day, d.MealCount, d.PoopCount, d.NapMinutes, d.WalkMinutes)
		}
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "md":
		fmt.Fprintf(w, "Week %s\n", rep.Week)
		fmt.Fprintln(w, "------------------------------------------------")
		fmt.Fprintf(w, "%-14s%6s%6s%10s%10s\n", "Day", "Meals", "Poops", "Nap", "Walk")
		for _, d := range rep.Days {
			fmt.Fprintf(w, "%-14s%6d%6d%10s%10s\n",
				d.Day.Start(env.loc).Format("Mon Jan 2"), d.MealCount, d.PoopCount, d.NapText, d.WalkText)
		}
		fmt.Fprintln(w, "------------------------------------------------")
		fmt.Fprintf(w, "%-14s%6d%6d%10s%10s\n", "Total", rep.MealCount, rep.PoopCount,
			timecalc.FormatMinutes(rep.NapMinutes), timecalc.FormatMinutes(rep.WalkMinutes))
	default:
		return usageErr(fmt.Errorf("unknown format %q", reportFormat))
	}
	return nil
}
