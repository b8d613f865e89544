package discord

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bwmarrin/discordgo"
	"github.com/chris/sambo/internal/tracker"
	"go.uber.org/zap"
)

// maxMessageLen is Discord's limit for one message.
const maxMessageLen = 2000

// Tracker handles one message.
type Tracker interface {
	Handle(ctx context.Context, text string) tracker.Result
}

type Bot struct {
	session *discordgo.Session
	tracker Tracker
	ownerID string
	logger  *zap.Logger
}

// NewBot prepares a session; Run connects it.
func NewBot(token, ownerID string, tr Tracker, logger *zap.Logger) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating Discord session: %w", err)
	}

	bot := &Bot{session: s, tracker: tr, ownerID: ownerID, logger: logger.Named("discord")}
	s.AddHandler(bot.onMessage)
	s.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentsGuildMessages
	return bot, nil
}

// Run opens the connection and serves messages until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening Discord connection: %w", err)
	}
	b.logger.Info("connected", zap.String("user", b.session.State.User.Username))

	<-ctx.Done()
	b.logger.Info("disconnecting")
	return b.session.Close()
}

// SendText posts text to a channel, split at the message limit.
func (b *Bot) SendText(ctx context.Context, channelID, text string) error {
	for _, chunk := range splitMessage(text, maxMessageLen) {
		if _, err := b.session.ChannelMessageSend(channelID, chunk, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("sending message: %w", err)
		}
	}
	return nil
}

// SendImage uploads a file from disk to a channel.
func (b *Bot) SendImage(ctx context.Context, channelID, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	if _, err := b.session.ChannelFileSend(channelID, filepath.Base(path), f, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("sending image: %w", err)
	}
	return nil
}

// Notify sends text to the owner's DM channel.
func (b *Bot) Notify(ctx context.Context, text string) error {
	if b.ownerID == "" {
		return fmt.Errorf("no Discord owner configured")
	}
	ch, err := b.session.UserChannelCreate(b.ownerID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("opening DM channel: %w", err)
	}
	return b.SendText(ctx, ch.ID, text)
}
