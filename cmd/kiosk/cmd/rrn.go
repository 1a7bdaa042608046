package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martclinic/kiosk/internal/shared/types"
)

// NewRRNCmd decodes a resident registration number offline
func NewRRNCmd(ctx context.Context, a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rrn NUMBER",
		Short: "show the search key, birth date and age encoded in an RRN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := types.DigitsOnly(args[0])
			key, ok := types.DeriveSearchKey(raw)
			if !ok {
				return fmt.Errorf("RRN must be 13 digits")
			}
			out := map[string]any{
				"masked":   types.RRN(raw).Masked(),
				"searchId": key,
				"sex":      types.RRN(raw).Sex().Label(),
				"age":      types.UnknownAge,
			}
			if birth, ok := types.DeriveBirthDate(raw, a.loc); ok {
				out["birthDate"] = birth.ISO()
				out["age"] = types.AgeString(birth.ISO(), a.now())
			}
			return printJSON(cmd, out)
		},
	}
}
