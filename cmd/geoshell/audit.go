package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"geoshell/internal/app"
	"geoshell/internal/platform/logger"
	"geoshell/pkg/platform/audit"
)

func newAuditCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Print the most recent audit events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := app.Open(ctx, cfg, logger.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr()), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			events, err := a.Audit.ListRecent(ctx, limit)
			if err != nil {
				return err
			}
			printEvents(cmd.OutOrStdout(), events)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of events to print, newest first")
	return cmd
}

func printEvents(w io.Writer, events []audit.Event) {
	fmt.Fprintln(w, "TIME|CATEGORY|ACTION|ACTOR|SUBJECT")
	for _, e := range events {
		fmt.Fprintf(w, "%s|%s|%s|%s|%s\n", e.Timestamp.UTC().Format("2006-01-02T15:04:05Z"), e.Category, e.Action, e.ActorID, e.Subject)
	}
}
