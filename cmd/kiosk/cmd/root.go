package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/martclinic/kiosk/internal/shared/config"
	"github.com/martclinic/kiosk/internal/shared/logging"
)

// NewRoot builds the kiosk command tree
func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "kiosk",
		Short:         "clinic front-desk kiosk client",
		Long:          "Search patients, register visits and watch today's queue against the clinic API.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = os.Getenv("KIOSK_CONFIG")
			}
			cfg, err := config.LoadFrom(path)
			if err != nil {
				return err
			}
			if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
				cfg.Log.Level = lvl
			}
			if url, _ := cmd.Flags().GetString("api"); url != "" {
				cfg.API.BaseURL = url
			}

			level, ok := logging.ParseLevel(cfg.Log.Level)
			out, closer := logging.Output(os.Stderr, logging.FileOptions{
				Path:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAgeDays: cfg.Log.MaxAgeDays,
			})
			logger := logging.Logger(out, cfg.Log.JSON, level)
			slog.SetDefault(logger)
			if !ok {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", cfg.Log.Level)
			}

			return a.init(cfg, logger, closer)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd.OutOrStdout(), cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewServeCmd(ctx, a),
		NewSearchCmd(ctx, a),
		NewPersonsCmd(ctx, a),
		NewRegisterCmd(ctx, a),
		NewVisitsCmd(ctx, a),
		NewWaitlistCmd(ctx, a),
		NewRRNCmd(ctx, a),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("config", "", "YAML config file (default $KIOSK_CONFIG)")
	pf.String("api", "", "clinic API base URL (overrides config)")
	return cmd
}

func printCommandTree(w io.Writer, cmd *cobra.Command, indent int) {
	fmt.Fprintln(w, strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(w, subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}

// printJSON writes v indented to the command's stdout
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// warnStale reports a write that reached the server while the list shown
// afterwards could not be reloaded.
func warnStale(cmd *cobra.Command, what, msg string) {
	cmd.PrintErrf("warning: %s but the list was not reloaded: %s\n", what, msg)
}
