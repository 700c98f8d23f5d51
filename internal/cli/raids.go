package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/raidlog/internal/app"
	"github.com/okian/raidlog/internal/domain/catalog"
	"github.com/okian/raidlog/internal/domain/model"
	"github.com/okian/raidlog/internal/domain/stats"
)

const defaultListLimit = 20

func (a *app) logCmd() *cobra.Command {
	var (
		in                                  model.RaidInput
		condition                           string
		risk, recovered, duration, startMin float64
		kills                               int
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a finished raid",
		Example: `  raidctl log --map Spaceport --win --squad ann,bob --risk 20000 --recovered 65000
  raidctl log --map "Blue Gate" --condition "Locked Gate" --risk 35000 --duration 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			if f.Changed("condition") {
				in.Condition = &condition
			}
			if f.Changed("risk") {
				in.Risk = &risk
			}
			if f.Changed("recovered") {
				in.Recovered = &recovered
			}
			if f.Changed("duration") {
				in.DurationMins = &duration
			}
			if f.Changed("start") {
				in.StartMins = &startMin
			}
			if f.Changed("kills") {
				in.Kills = &kills
			}
			return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				raid, err := svc.LogRaid(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged raid %s\n", raid.ID)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Map, "map", "", "map played (see raidctl sections map)")
	f.BoolVar(&in.Successful, "win", false, "extracted successfully")
	f.StringVar(&condition, "condition", "", "map condition, Normal when omitted")
	f.StringSliceVar(&in.Squad, "squad", nil, "teammate names, comma separated")
	f.Float64Var(&risk, "risk", 0, "value brought in")
	f.Float64Var(&recovered, "recovered", 0, "value extracted (wins only)")
	f.Float64Var(&duration, "duration", 0, "raid length in minutes")
	f.Float64Var(&startMin, "start", 0, "in-game timer at spawn, in minutes")
	f.IntVar(&kills, "kills", 0, "player kills")
	_ = cmd.MarkFlagRequired("map")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List raids, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				raids, err := svc.Raids(ctx, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(raids) == 0 {
					fmt.Fprintln(out, "No raids yet, run 'raidctl log' first")
					return nil
				}
				writeRaidTable(out, raids, svc.Location())
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", defaultListLimit, "maximum raids to show")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <raid-id>",
		Short: "Print one raid as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				raid, err := svc.Raid(ctx, args[0])
				if err != nil {
					return fmt.Errorf("raid %q: %w", args[0], err)
				}
				return writeIndented(cmd.OutOrStdout(), raid)
			})
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <raid-id>",
		Short: "Delete a raid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				if err := svc.DeleteRaid(ctx, args[0]); err != nil {
					return fmt.Errorf("raid %q: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted raid %s\n", args[0])
				return nil
			})
		},
	}
}

func writeRaidTable(w io.Writer, raids []model.Raid, loc *time.Location) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tRESULT\tMAP\tCONDITION\tSQUAD\tVALUE")
	for _, r := range raids {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			outcome(r),
			r.Map,
			r.ConditionOrDefault(),
			squadLabel(r.Squad),
			valueLabel(r),
		)
	}
	_ = tw.Flush()
}

func outcome(r model.Raid) string {
	if r.Successful {
		return "extracted"
	}
	return "died"
}

func squadLabel(squad []string) string {
	if len(squad) == 0 {
		return "solo"
	}
	return strings.Join(squad, ", ")
}

// valueLabel shows profit on wins and loss on deaths.
func valueLabel(r model.Raid) string {
	if p, ok := stats.EffectiveProfit(r); ok {
		if p >= 0 {
			return "+" + catalog.FormatValue(&p)
		}
		return catalog.FormatValue(&p)
	}
	if l, ok := stats.EffectiveLoss(r); ok {
		l = -l
		return catalog.FormatValue(&l)
	}
	return "-"
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
