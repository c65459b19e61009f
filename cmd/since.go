package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/remylog/internal/recency"
)

var sinceCmd = &cobra.Command{
	Use:   "since [type...]",
	Short: "Show how long ago each activity was last logged",
	Long: `Show how long ago each activity was last logged.

Without arguments the configured tracked types are shown. Entries past their
configured threshold are highlighted.`,
	RunE: runSince,
}

func runSince(cmd *cobra.Command, args []string) error {
	now := time.Now()

	events, err := env.store.List(cmd.Context())
	if err != nil {
		return storageErr(err)
	}

	var reports []recency.Report
	if len(args) == 0 {
		reports = env.reporter.All(events, now)
	} else {
		for _, a := range args {
			reports = append(reports, env.reporter.Report(events, normalizeType(a), now))
		}
	}

	w := cmd.OutOrStdout()
	for _, r := range reports {
		line := fmt.Sprintf("%-14s%s", r.Type, r)
		if r.Found {
			line += styleDim.Render(fmt.Sprintf("  (%s)", r.Last.Time.In(env.loc).Format("Jan 2 15:04")))
		}
		if r.Stale {
			line = styleStale.Render(line)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
