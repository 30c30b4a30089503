package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/f1-standings/internal/analytics"
	"github.com/yourusername/f1-standings/internal/dashboard"
)

const queryTimeout = 2 * time.Minute

var filterQuery string

func init() {
	standingsCmd.Flags().StringVarP(&filterQuery, "filter", "f", "", "Only show drivers whose name, code or team contains this text")
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Print the championship table with title probabilities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
		defer cancel()

		d, err := dashboards.Load(ctx, cfg.Season)
		if err != nil {
			return err
		}
		printStandings(os.Stdout, d.Filtered(filterQuery))
		return nil
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain <driverId>",
	Short: "Explain a driver's championship probability",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
		defer cancel()

		entry, err := dashboards.Explanation(ctx, cfg.Season, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s %s (%s%%)\n\n%s\n", entry.Flag, entry.FullName, formatFloat(entry.Probability), entry.Explanation)
		return nil
	},
}

var progressionCmd = &cobra.Command{
	Use:   "progression <driverId>...",
	Short: "Print cumulative and projected points per round",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
		defer cancel()

		chart, err := dashboards.Progression(ctx, cfg.Season, args)
		if err != nil {
			return err
		}
		printChart(os.Stdout, chart)
		return nil
	},
}

func printStandings(out io.Writer, d *dashboard.Dashboard) {
	fmt.Fprintf(out, "Season %s: %d races remaining, %d points available\n", d.Season, d.RemainingRaces, d.RemainingPoints)
	if d.NextRace != nil {
		fmt.Fprintf(out, "Next: round %s, %s (%s)\n", d.NextRace.Round, d.NextRace.RaceName, d.NextRace.Date)
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tDRIVER\tTEAM\tPTS\tWINS\tTITLE %")
	for _, e := range d.Entries {
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%d\t%s\n",
			e.Position, e.Flag, e.FullName, e.TeamName, formatFloat(e.Points), e.Wins, formatFloat(e.Probability))
	}
	_ = w.Flush()
}

func printChart(out io.Writer, chart analytics.Chart) {
	if len(chart.Series) == 0 {
		fmt.Fprintln(out, "No completed rounds for the requested drivers")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "ROUND\tRACE")
	for _, s := range chart.Series {
		fmt.Fprintf(w, "\t%s", s.DriverID)
	}
	fmt.Fprintln(w)

	for i, label := range chart.Axis {
		fmt.Fprintf(w, "%d\t%s", label.Round, label.RaceName)
		for _, s := range chart.Series {
			fmt.Fprintf(w, "\t%s", cell(s.Actual[i], s.Projected[i]))
		}
		fmt.Fprintln(w)
	}
	_ = w.Flush()
}

// cell prints the actual value, or the projected one marked with "~".
func cell(actual, projected *float64) string {
	switch {
	case actual != nil:
		return formatFloat(*actual)
	case projected != nil:
		return "~" + strconv.FormatFloat(*projected, 'f', 1, 64)
	default:
		return "-"
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
