package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martclinic/kiosk/internal/person"
	"github.com/martclinic/kiosk/internal/shared/state"
)

// NewSearchCmd looks a patient up the way the kiosk search screen does
func NewSearchCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "find a patient by code, national ID, search key or name",
		Long:  "Exactly one of --code, --rrn, --key, --name or --suggest must be given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, _ := cmd.Flags().GetInt("code")
			rrn, _ := cmd.Flags().GetString("rrn")
			key, _ := cmd.Flags().GetString("key")
			name, _ := cmd.Flags().GetString("name")
			suggest, _ := cmd.Flags().GetString("suggest")

			s := person.NewSearch(a.persons, a.logger)
			var res state.State[[]person.Person]
			switch {
			case code > 0:
				res = s.ByCode(ctx, code)
			case rrn != "":
				res = s.ByRRN(ctx, rrn)
			case key != "":
				res = s.BySearchKey(ctx, key)
			case name != "":
				res = s.ByName(ctx, name)
			case suggest != "":
				return printJSON(cmd, s.Suggest(ctx, suggest))
			default:
				return fmt.Errorf("one of --code, --rrn, --key, --name or --suggest is required")
			}

			if res.Status == state.Error {
				return errors.New(res.Message)
			}
			return printJSON(cmd, res.Data)
		},
	}
	pf := cmd.PersistentFlags()
	pf.IntP("code", "c", 0, "patient code (PCODE)")
	pf.StringP("rrn", "r", "", "13-digit resident registration number")
	pf.StringP("key", "k", "", "search key YYMMDD-S")
	pf.StringP("name", "n", "", "patient name")
	pf.String("suggest", "", "list up to 15 distinct names matching a prefix")
	return cmd
}
