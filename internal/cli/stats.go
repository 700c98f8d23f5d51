package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	service "github.com/okian/raidlog/internal/app"
	"github.com/okian/raidlog/internal/domain/catalog"
	"github.com/okian/raidlog/internal/domain/stats"
)

func (a *app) statsCmd() *cobra.Command {
	var (
		query  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the stats report",
		Example: `  raidctl stats
  raidctl stats --search profit
  raidctl stats --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				rep, err := svc.Report(ctx, query)
				if err != nil {
					return err
				}
				if asJSON {
					return writeIndented(cmd.OutOrStdout(), rep)
				}
				writeReport(cmd.OutOrStdout(), rep)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&query, "search", "s", "", "only show sections matching this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func (a *app) sectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sections [query]",
		Short: "List the stats sections a search selects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := stats.SearchSections(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "No sections match")
				return nil
			}
			for _, s := range stats.Sections() {
				for _, id := range ids {
					if s.ID == id {
						fmt.Fprintf(out, "%-10s %s\n", s.ID, s.Title)
					}
				}
			}
			return nil
		},
	}
}

func writeReport(w io.Writer, rep stats.Report) {
	if len(rep.Sections) == 0 {
		fmt.Fprintf(w, "No sections match %q\n", rep.Query)
		return
	}
	titles := make(map[string]string)
	for _, s := range stats.Sections() {
		titles[s.ID] = s.Title
	}
	for _, id := range rep.Sections {
		fmt.Fprintf(w, "== %s ==\n", titles[id])
		switch id {
		case stats.SectionOverview:
			o, s := rep.Overview, rep.Streaks
			fmt.Fprintf(w, "Raids %d  Extracted %d  Died %d  Success %.1f%%  Kills %d\n",
				o.Total, o.Successful, o.Failed, o.SuccessRate, o.TotalKills)
			fmt.Fprintf(w, "Loot %s  Lost %s  Net %s\n", money(o.TotalLoot), money(o.TotalLoss), money(o.Net))
			fmt.Fprintf(w, "Streak %s x%d  Best win run %d  Worst loss run %d\n",
				s.Current.Type, s.Current.Count, s.BestWin, s.WorstLoss)
		case stats.SectionTime:
			writeGroups(w, "Day", rep.Time.ByDay)
			writeGroups(w, "Time of day", rep.Time.ByTimeOfDay)
			t := rep.Time.Trend
			fmt.Fprintf(w, "Trend %s (last 10: %.1f%%, overall %.1f%%)\n", t.Trend, t.Recent, t.Overall)
		case stats.SectionSquad:
			writeGroups(w, "Squad size", rep.Squad.BySize)
			writeGroups(w, "Teammate", rep.Squad.ByTeammate)
			writeGroups(w, "Pair", rep.Squad.Combos)
		case stats.SectionMap:
			writeGroups(w, "Map", *rep.Maps)
		case stats.SectionCondition:
			writeGroups(w, "Condition", *rep.Conditions)
		case stats.SectionSpawn:
			writeGroups(w, "Spawn", *rep.Spawn)
		case stats.SectionDuration:
			writeGroups(w, "Length", rep.Duration.Brackets)
			avg := rep.Duration.AvgByOutcome
			fmt.Fprintf(w, "Average length: extracted %s, died %s\n",
				catalog.FormatDuration(avg.Win), catalog.FormatDuration(avg.Loss))
		case stats.SectionLoot:
			l := rep.Loot
			fmt.Fprintf(w, "Loot %s  Lost %s  Avg win %s  Avg death %s  Per minute %s\n",
				money(l.TotalLoot), money(l.TotalLoss), money(l.AvgLootOnWin), money(l.AvgLossOnDeath), money(l.LootPerMinute))
		}
		fmt.Fprintln(w)
	}
}

func writeGroups(w io.Writer, heading string, groups []stats.StatGroup) {
	if len(groups) == 0 {
		fmt.Fprintf(w, "%s: no data\n", heading)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tRAIDS\tWON\tRATE\tAVG LOOT\n", strings.ToUpper(heading))
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\t%s\n", g.Label, g.Total, g.Successful, g.SuccessRate, money(g.AvgLoot))
	}
	_ = tw.Flush()
}

func money(v float64) string { return catalog.FormatValue(&v) }
