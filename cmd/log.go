package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/remylog/internal/model"
	"github.com/Tiliavir/remylog/internal/server"
)

var (
	logAt    string
	logNotes string
)

var logCmd = &cobra.Command{
	Use:   "log [type]",
	Short: "Log an activity",
	Long: `Log an activity, e.g.

  remylog log Meal
  remylog log "Nap (start)" --at 13:05
  remylog log wee --notes "garden"

Without a type an interactive picker is shown when running in a terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVar(&logAt, "at", "", "Time of the activity: HH:MM today or RFC3339 (default: now)")
	logCmd.Flags().StringVarP(&logNotes, "notes", "n", "", "Free-text notes")
}

func runLog(cmd *cobra.Command, args []string) error {
	now := time.Now().In(env.loc)

	typ := ""
	notes := logNotes
	if len(args) == 1 {
		typ = args[0]
	} else if isInteractive() {
		if err := pickActivity(&typ, &notes); err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return usageErr(err)
		}
	}

	ts, err := parseAt(logAt, now)
	if err != nil {
		return usageErr(err)
	}

	ev, err := env.store.Append(cmd.Context(), model.NewEvent{
		Type:  normalizeType(typ),
		Time:  ts,
		Notes: notes,
	})
	if errors.Is(err, model.ErrNoActivity) {
		return usageErr(fmt.Errorf("%w; pass one of: %s", err, activityNames()))
	}
	if err != nil {
		return storageErr(err)
	}

	if !ev.Type.Known() {
		env.logger.Warn("logged unknown activity type; it will not appear in summaries", "type", ev.Type)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged %s at %s (id %d)\n",
		eventLabel(ev), ev.Time.In(env.loc).Format("15:04"), ev.ID)
	return nil
}

// parseAt resolves the --at flag. "HH:MM" means that time on now's day.
func parseAt(v string, now time.Time) (time.Time, error) {
	if v == "" {
		return now, nil
	}
	if clock, err := time.Parse("15:04", v); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
	}
	ts, err := server.ParseTimestamp(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: want HH:MM or RFC3339", v)
	}
	return ts, nil
}

// normalizeType maps a case-insensitive match of a known label to that label.
// Anything else is passed through unchanged.
func normalizeType(s string) model.ActivityType {
	s = strings.TrimSpace(s)
	for _, a := range model.Activities {
		if strings.EqualFold(s, string(a.Type)) {
			return a.Type
		}
	}
	return model.ActivityType(s)
}

func activityNames() string {
	names := make([]string, 0, len(model.Activities))
	for _, a := range model.Activities {
		names = append(names, fmt.Sprintf("%q", a.Type))
	}
	return strings.Join(names, ", ")
}

func pickActivity(typ, notes *string) error {
	opts := make([]huh.Option[string], 0, len(model.Activities))
	for _, a := range model.Activities {
		opts = append(opts, huh.NewOption(a.Emoji+" "+string(a.Type), string(a.Type)))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Activity").
				Options(opts...).
				Value(typ),
			huh.NewInput().
				Title("Notes").
				Placeholder("optional").
				Value(notes),
		),
	).Run()
}

func eventLabel(e model.Event) string {
	if emoji := e.Type.Emoji(); emoji != "" {
		return emoji + " " + string(e.Type)
	}
	return string(e.Type)
}
