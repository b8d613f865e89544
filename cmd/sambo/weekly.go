package main

import (
	"context"
	"fmt"

	"github.com/chris/sambo/internal/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var deliverWeekly bool

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Build the weekly summary now and print it",
	Long: `Aggregates the last seven days and prints the summary. With --deliver the
summary is also posted to WEBHOOK_URL and stored as the latest report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		reports := a.reports()
		if !deliverWeekly && reports != nil {
			reports = previewReports{reports}
		}
		webhook := ""
		if deliverWeekly {
			webhook = cfg.WebhookURL
		}
		sched, err := scheduler.New(scheduler.Config{
			Cron:       cfg.WeeklyCron,
			Location:   cfg.Location,
			WebhookURL: webhook,
		}, a.aggregator, a.generator, nil, reports, logger)
		if err != nil {
			return err
		}

		summary := sched.Compose(ctx)
		fmt.Fprintln(cmd.OutOrStdout(), summary.Text)
		logger.Info("weekly summary built", zap.String("source", string(summary.Source)), zap.Error(summary.Err))

		if !deliverWeekly {
			return nil
		}
		to, err := sched.Deliver(ctx, summary.Text)
		if err != nil {
			return fmt.Errorf("delivering weekly summary: %w", err)
		}
		logger.Info("weekly summary delivered", zap.String("to", to))
		return nil
	},
}

// previewReports reads past reports but never stores the preview.
type previewReports struct {
	scheduler.ReportStore
}

func (previewReports) SaveReport(context.Context, string, string) error { return nil }
