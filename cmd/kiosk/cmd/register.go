package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/martclinic/kiosk/internal/shared/state"
	"github.com/martclinic/kiosk/internal/visit"
)

// NewRegisterCmd registers a visit for a confirmed patient and reloads
// today's visit log.
func NewRegisterCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register PCODE",
		Short: "register today's visit for a patient",
		Long: "Registers a visit for PCODE. --phone takes the 8 digits after 010; " +
			"in split mode it must be written as XXXX-XXXX.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pcode, err := parseCode(args[0])
			if err != nil {
				return err
			}
			phone, _ := cmd.Flags().GetString("phone")

			reg, err := a.registrar()
			if err != nil {
				return err
			}
			p, err := a.persons.Get(ctx, pcode)
			if err != nil {
				return err
			}

			board := visit.NewBoard(a.visits, reg, a.clock(), a.logger)
			v, err := board.Register(ctx, *p, phoneEntry(reg.Mode(), phone))
			if err != nil {
				return err
			}
			out := map[string]any{"visit": v}
			if list := board.List().Get(); list.Status == state.Success {
				out["waiting"] = len(list.Data)
			} else {
				warnStale(cmd, "visit registered", list.Message)
			}
			return printJSON(cmd, out)
		},
	}
	pf := cmd.PersistentFlags()
	pf.String("phone", "", "phone digits after 010 (XXXX-XXXX or XXXXXXXX)")
	return cmd
}

func phoneEntry(mode visit.PhoneMode, raw string) visit.PhoneEntry {
	raw = strings.TrimSpace(raw)
	if mode == visit.PhoneSingle {
		return visit.SinglePhone(raw)
	}
	first, second, _ := strings.Cut(raw, "-")
	return visit.SplitPhone(first, second)
}

