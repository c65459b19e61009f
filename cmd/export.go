package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/remylog/internal/model"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every logged activity to stdout, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, yaml")
}

func runExport(cmd *cobra.Command, args []string) error {
	events, err := env.store.List(cmd.Context())
	if err != nil {
		return storageErr(err)
	}
	slices.SortStableFunc(events, model.ByTimeAsc)

	w := cmd.OutOrStdout()
	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(events, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(events); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case "csv":
		printCSV(w, events)
	default:
		return usageErr(fmt.Errorf("unknown format %q", exportFormat))
	}
	return nil
}

func printCSV(w io.Writer, events []model.Event) {
	fmt.Fprintln(w, "id,date,time,type,notes")
	for _, e := range events {
		local := e.Time.In(env.loc)
		fmt.Fprintf(w, "%s,%s,%s,%s,%s\n",
			strconv.FormatInt(e.ID, 10),
			local.Format("2006-01-02"),
			csvEscape(local.Format(time.RFC3339)),
			csvEscape(string(e.Type)),
			csvEscape(e.Notes),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
