package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martclinic/kiosk/internal/shared/state"
	"github.com/martclinic/kiosk/internal/shared/types"
	"github.com/martclinic/kiosk/internal/visit"
)

// NewVisitsCmd is the staff visit log
func NewVisitsCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visits",
		Short: "show the visit log (today by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			all, _ := cmd.Flags().GetBool("all")
			code, _ := cmd.Flags().GetInt("code")

			board := visit.NewBoard(a.visits, nil, a.clock(), a.logger)
			switch {
			case code > 0:
				v, err := board.LoadByCode(ctx, code)
				if err != nil {
					return err
				}
				return printJSON(cmd, v)
			case all:
				if err := board.LoadAll(ctx); err != nil {
					return err
				}
			case date != "":
				if err := board.LoadByDate(ctx, date); err != nil {
					return err
				}
			default:
				if err := board.LoadToday(ctx); err != nil {
					return err
				}
			}
			return printJSON(cmd, board.List().Get().Data)
		},
	}
	f := cmd.Flags()
	f.StringP("date", "d", "", "visit date yyyyMMdd")
	f.Bool("all", false, "every visit on record")
	f.IntP("code", "c", 0, "latest visit for a patient code")
	cmd.AddCommand(newVisitsDeleteCmd(ctx, a))
	return cmd
}

func newVisitsDeleteCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete PCODE",
		Short: "delete a visit and reload its date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pcode, err := parseCode(args[0])
			if err != nil {
				return err
			}
			date, _ := cmd.Flags().GetString("date")
			if date == "" {
				date = types.CompactDate(a.now())
			}
			board := visit.NewBoard(a.visits, nil, a.clock(), a.logger)
			if err := board.Delete(ctx, pcode, date); err != nil {
				return err
			}
			list := board.List().Get()
			if list.Status != state.Success {
				warnStale(cmd, fmt.Sprintf("deleted visit %d", pcode), list.Message)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted visit %d, %d left on %s\n", pcode, len(list.Data), date)
			return nil
		},
	}
	cmd.Flags().StringP("date", "d", "", "date to reload afterwards (default today)")
	return cmd
}
