package discord

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/chris/sambo/internal/reply"
	"go.uber.org/zap"
)

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore own messages
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}

	// Only respond to DMs or when mentioned
	isDM := m.GuildID == ""
	isMentioned := false
	for _, u := range m.Mentions {
		if u.ID == s.State.User.ID {
			isMentioned = true
			break
		}
	}

	if !isDM && !isMentioned {
		return
	}

	content := strings.TrimSpace(stripMention(m.Content, s.State.User.ID))
	if content == "" {
		return
	}

	s.ChannelTyping(m.ChannelID)

	ctx := context.Background()
	p := b.respond(ctx, m.Author.ID, content)
	r := reply.Deliver(ctx, b, m.ChannelID, p)
	if r.ImageErr != nil {
		b.logger.Warn("image not sent", zap.String("image", p.Image), zap.Error(r.ImageErr))
	}
	if r.TextErr != nil {
		b.logger.Error("reply not sent", zap.String("channel", m.ChannelID), zap.Error(r.TextErr))
	}
}

// respond turns one message into the reply payload. Anyone but the owner is
// turned away before the tracker sees the text.
func (b *Bot) respond(ctx context.Context, authorID, content string) reply.Payload {
	if b.ownerID != "" && authorID != b.ownerID {
		b.logger.Warn("access denied", zap.String("author", authorID))
		return reply.AccessDenied()
	}
	res := b.tracker.Handle(ctx, content)
	b.logger.Debug("handled", zap.String("outcome", res.Outcome.String()))
	return res.Payload
}

func stripMention(s, userID string) string {
	s = strings.ReplaceAll(s, "<@"+userID+">", "")
	s = strings.ReplaceAll(s, "<@!"+userID+">", "")
	return s
}

func splitMessage(s string, maxLen int) []string {
	if len(s) <= maxLen {
		return []string{s}
	}
	var chunks []string
	for len(s) > 0 {
		end := maxLen
		if end > len(s) {
			end = len(s)
		}
		// Try to split at a newline
		if idx := strings.LastIndex(s[:end], "\n"); idx > 0 {
			end = idx + 1
		} else if end < len(s) {
			for end > 0 && !utf8.RuneStart(s[end]) {
				end--
			}
			if end == 0 {
				_, end = utf8.DecodeRuneInString(s)
			}
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}
