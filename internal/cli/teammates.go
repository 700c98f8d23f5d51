package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	service "github.com/okian/raidlog/internal/app"
)

func (a *app) teammatesCmd() *cobra.Command {
	var query string
	list := func(cmd *cobra.Command, _ []string) error {
		return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
			roster, err := svc.SearchTeammates(ctx, query)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(roster) == 0 {
				fmt.Fprintln(out, "No teammates")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "USERNAME\tLAST PLAYED")
			for _, t := range roster {
				fmt.Fprintf(tw, "%s\t%s\n", t.Username, t.LastPlayed.In(svc.Location()).Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		})
	}

	cmd := &cobra.Command{
		Use:     "teammates",
		Aliases: []string{"tm"},
		Short:   "Manage the teammate roster",
		Args:    cobra.NoArgs,
		RunE:    list,
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List teammates, most recently played first",
		Args:  cobra.NoArgs,
		RunE:  list,
	}
	listCmd.Flags().StringVarP(&query, "query", "q", "", "filter by name")

	cmd.AddCommand(listCmd,
		&cobra.Command{
			Use:   "add <username>",
			Short: "Add a teammate",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
					t, err := svc.AddTeammate(ctx, strings.Join(args, " "))
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", t.Username)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <username>",
			Short: "Remove a teammate",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := strings.Join(args, " ")
				return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
					if err := svc.RemoveTeammate(ctx, name); err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
					return nil
				})
			},
		},
	)
	return cmd
}
