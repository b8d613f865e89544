package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/chris/sambo/internal/discord"
	"github.com/chris/sambo/internal/scheduler"
	"github.com/chris/sambo/internal/telegram"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the chat bot and the weekly schedule",
	Long: `Connects to the chat selected by TRANSPORT (telegram or discord), records
commands from the owner, and sends the weekly summary on WEEKLY_CRON.`,
	RunE: runBot,
}

// transport is a chat bot that can also reach its owner.
type transport interface {
	Run(ctx context.Context) error
	Notify(ctx context.Context, text string) error
}

func runBot(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateTransport(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	var bot transport
	switch cfg.Transport {
	case "telegram":
		bot, err = telegram.NewBot(cfg.TelegramToken, cfg.TelegramUserID, a.tracker, logger)
	case "discord":
		bot, err = discord.NewBot(cfg.DiscordToken, cfg.DiscordUserID, a.tracker, logger)
	default:
		err = fmt.Errorf("unknown transport %q", cfg.Transport)
	}
	if err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}

	sched, err := scheduler.New(scheduler.Config{
		Cron:       cfg.WeeklyCron,
		Location:   cfg.Location,
		WebhookURL: cfg.WebhookURL,
	}, a.aggregator, a.generator, bot, a.reports(), logger)
	if err != nil {
		return err
	}

	logger.Info("bot is running, press Ctrl+C to exit",
		zap.String("transport", cfg.Transport),
		zap.String("owner", owner()),
		zap.String("timezone", cfg.Location.String()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bot.Run(gctx) })
	g.Go(func() error { return sched.Run(gctx) })
	err = g.Wait()
	logger.Info("shutting down")
	return err
}

func owner() string {
	if cfg.Transport == "discord" {
		return cfg.DiscordUserID
	}
	return strconv.FormatInt(cfg.TelegramUserID, 10)
}
