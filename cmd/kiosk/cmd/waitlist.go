package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martclinic/kiosk/internal/shared/state"
	"github.com/martclinic/kiosk/internal/shared/types"
	"github.com/martclinic/kiosk/internal/waitlist"
)

// NewWaitlistCmd is the staff wait queue
func NewWaitlistCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waitlist",
		Short: "show the wait queue (today by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			board := waitlist.NewBoard(a.waitlist, a.logger)
			if err := board.LoadByDate(ctx, dateFlag(cmd, a)); err != nil {
				return err
			}
			return printJSON(cmd, board.List().Get().Data)
		},
	}
	cmd.PersistentFlags().StringP("date", "d", "", "visit date yyyyMMdd (default today)")
	cmd.AddCommand(
		newWaitlistAddCmd(ctx, a),
		newWaitlistDeleteCmd(ctx, a),
	)
	return cmd
}

func dateFlag(cmd *cobra.Command, a *app) string {
	if date, _ := cmd.Flags().GetString("date"); date != "" {
		return date
	}
	return types.CompactDate(a.now())
}

func newWaitlistAddCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add PCODE",
		Short: "queue a patient by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pcode, err := parseCode(args[0])
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("name")
			resid1, _ := cmd.Flags().GetString("resid1")
			resid2, _ := cmd.Flags().GetString("resid2")

			board := waitlist.NewBoard(a.waitlist, a.logger)
			if err := board.Add(ctx, pcode, dateFlag(cmd, a), name, resid1, resid2); err != nil {
				return err
			}
			list := board.List().Get()
			if list.Status != state.Success {
				warnStale(cmd, fmt.Sprintf("queued %d", pcode), list.Message)
				return nil
			}
			return printJSON(cmd, list.Data)
		},
	}
	f := cmd.Flags()
	f.StringP("name", "n", "", "display name")
	f.String("resid1", "", "first note line")
	f.String("resid2", "", "second note line")
	return cmd
}

func newWaitlistDeleteCmd(ctx context.Context, a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete PCODE",
		Short: "remove a patient from the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pcode, err := parseCode(args[0])
			if err != nil {
				return err
			}
			key := waitlist.Key{PCODE: pcode, VISIDATE: dateFlag(cmd, a)}
			board := waitlist.NewBoard(a.waitlist, a.logger)
			if err := board.Delete(ctx, key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", key)
			return nil
		},
	}
}
