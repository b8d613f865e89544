// Package telegram serves the tracker over a Telegram bot.
package telegram

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/chris/sambo/internal/reply"
	"github.com/chris/sambo/internal/tracker"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Tracker handles one message.
type Tracker interface {
	Handle(ctx context.Context, text string) tracker.Result
}

type Bot struct {
	bot     *tele.Bot
	tracker Tracker
	ownerID int64
	logger  *zap.Logger
}

// NewBot creates the bot and registers its handlers. Messages are processed
// one at a time.
func NewBot(token string, ownerID int64, tr Tracker, logger *zap.Logger) (*Bot, error) {
	b := &Bot{tracker: tr, ownerID: ownerID, logger: logger.Named("telegram")}

	tb, err := tele.NewBot(tele.Settings{
		Token:       token,
		Poller:      &tele.LongPoller{Timeout: 10 * time.Second},
		Synchronous: true,
		OnError: func(err error, c tele.Context) {
			b.logger.Error("handler error", zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating Telegram bot: %w", err)
	}
	b.bot = tb

	tb.Use(b.ownerOnly)
	for _, cmd := range []string{"/start", "/help", "/1", "/2", "/3", "/4", "/5"} {
		tb.Handle(cmd, b.onText)
	}
	tb.Handle(tele.OnText, b.onText)
	return b, nil
}

// Run polls for updates until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		b.logger.Info("stopping poller")
		b.bot.Stop()
	}()
	b.logger.Info("polling", zap.String("user", b.bot.Me.Username))
	b.bot.Start()
	return nil
}

func (b *Bot) ownerOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Sender() == nil || !b.allowed(c.Sender().ID) {
			var id int64
			if c.Sender() != nil {
				id = c.Sender().ID
			}
			b.logger.Warn("access denied", zap.Int64("user", id))
			return c.Send(reply.AccessDenied().Text)
		}
		return next(c)
	}
}

func (b *Bot) allowed(userID int64) bool {
	return b.ownerID == 0 || userID == b.ownerID
}

func (b *Bot) onText(c tele.Context) error {
	ctx := context.Background()
	res := b.tracker.Handle(ctx, c.Text())
	b.logger.Debug("handled", zap.String("outcome", res.Outcome.String()))

	to := strconv.FormatInt(c.Chat().ID, 10)
	r := reply.Deliver(ctx, b, to, res.Payload)
	if r.ImageErr != nil {
		b.logger.Warn("image not sent", zap.String("image", res.Payload.Image), zap.Error(r.ImageErr))
	}
	return r.TextErr
}

// SendText sends text to a chat id.
func (b *Bot) SendText(ctx context.Context, to, text string) error {
	chat, err := parseChat(to)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := b.bot.Send(chat, text); err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	return nil
}

// SendImage sends a photo from disk to a chat id.
func (b *Bot) SendImage(ctx context.Context, to, path string) error {
	chat, err := parseChat(to)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := b.bot.Send(chat, &tele.Photo{File: tele.FromDisk(path)}); err != nil {
		return fmt.Errorf("sending image: %w", err)
	}
	return nil
}

// Notify sends text to the owner.
func (b *Bot) Notify(ctx context.Context, text string) error {
	if b.ownerID == 0 {
		return fmt.Errorf("no Telegram owner configured")
	}
	return b.SendText(ctx, strconv.FormatInt(b.ownerID, 10), text)
}

func parseChat(to string) (tele.ChatID, error) {
	id, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat id %q: %w", to, err)
	}
	return tele.ChatID(id), nil
}
