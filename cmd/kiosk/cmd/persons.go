package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/martclinic/kiosk/internal/person"
	"github.com/martclinic/kiosk/internal/shared/types"
)

// NewPersonsCmd is the staff patient list
func NewPersonsCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "persons",
		Short: "list, create, edit and delete patient records",
	}
	cmd.AddCommand(
		newPersonsListCmd(ctx, a),
		newPersonsGetCmd(ctx, a),
		newPersonsCreateCmd(ctx, a),
		newPersonsUpdateCmd(ctx, a),
		newPersonsDeleteCmd(ctx, a),
	)
	return cmd
}

func newPersonsListCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "page through patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			search, _ := cmd.Flags().GetString("search")
			pages, _ := cmd.Flags().GetInt("pages")
			size, _ := cmd.Flags().GetInt("page-size")
			if size <= 0 {
				size = a.cfg.Persons.PageSize
			}

			l := person.NewListing(a.persons, size, a.logger)
			l.SetSearch(search)
			if err := l.LoadFirstPage(ctx); err != nil {
				return err
			}
			for i := 1; i < pages; i++ {
				fetched, err := l.LoadMore(ctx)
				if err != nil {
					return err
				}
				if !fetched {
					break
				}
			}
			return printJSON(cmd, map[string]any{
				"cursor":  l.Cursor(),
				"persons": l.Persons(),
			})
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("search", "s", "", "server-side filter")
	pf.Int("pages", 1, "number of pages to load")
	pf.Int("page-size", 0, "page size (default from config)")
	return cmd
}

func newPersonsGetCmd(ctx context.Context, a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get PCODE",
		Short: "show one patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pcode, err := parseCode(args[0])
			if err != nil {
				return err
			}
			p, err := a.persons.Get(ctx, pcode)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}

// formFlags are shared by create and update
func formFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringP("name", "n", "", "patient name")
	pf.StringP("rrn", "r", "", "13-digit resident registration number; fills birth date and search key")
	pf.String("phone", "", "mobile number, digits or 010-XXXX-XXXX")
	pf.String("sex", "", "sex code 1-4")
	pf.Bool("consent", false, "privacy consent given")
	pf.Int("family", 0, "family code (FCODE)")
	pf.String("relation", "", "relation to the insured")
}

// applyForm copies the flags that were set onto f
func applyForm(cmd *cobra.Command, f *person.Form) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		v, _ := flags.GetString("name")
		f.SetName(v)
	}
	if flags.Changed("rrn") {
		v, _ := flags.GetString("rrn")
		f.SetRRN(types.DigitsOnly(v))
		if sex := types.RRN(types.DigitsOnly(v)).Sex(); sex.IsKnown() && !flags.Changed("sex") {
			f.SetSex(sex)
		}
	}
	if flags.Changed("phone") {
		v, _ := flags.GetString("phone")
		f.SetPhone(v)
	}
	if flags.Changed("sex") {
		v, _ := flags.GetString("sex")
		f.SetSex(types.SexCode(v))
	}
	if flags.Changed("consent") {
		v, _ := flags.GetBool("consent")
		f.SetConsent(v)
	}
	if flags.Changed("family") {
		v, _ := flags.GetInt("family")
		f.SetFamily(v)
	}
	if flags.Changed("relation") {
		v, _ := flags.GetString("relation")
		f.SetRelation(v)
	}
}

func newPersonsCreateCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "register a new patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := person.NewEditor(a.persons, a.loc, a.logger)
			applyForm(cmd, e.Form())
			p, err := e.Create(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
	formFlags(cmd)
	return cmd
}

func newPersonsUpdateCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update PCODE",
		Short: "edit an existing patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pcode, err := parseCode(args[0])
			if err != nil {
				return err
			}
			e := person.NewEditor(a.persons, a.loc, a.logger)
			if _, err := e.Load(ctx, pcode); err != nil {
				return err
			}
			applyForm(cmd, e.Form())
			p, err := e.Save(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
	formFlags(cmd)
	return cmd
}

func newPersonsDeleteCmd(ctx context.Context, a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete PCODE",
		Short: "delete a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pcode, err := parseCode(args[0])
			if err != nil {
				return err
			}
			if err := a.persons.Delete(ctx, pcode); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", pcode)
			return nil
		},
	}
}

func parseCode(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid patient code %q", s)
	}
	return n, nil
}
