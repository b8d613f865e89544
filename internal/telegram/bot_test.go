package telegram

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func TestAllowed(t *testing.T) {
	b := &Bot{ownerID: 42, logger: zap.NewNop()}
	assert.True(t, b.allowed(42))
	assert.False(t, b.allowed(7))

	open := &Bot{logger: zap.NewNop()}
	assert.True(t, open.allowed(7))
}

func TestParseChat(t *testing.T) {
	chat, err := parseChat("-100123")
	require.NoError(t, err)
	assert.Equal(t, tele.ChatID(-100123), chat)

	_, err = parseChat("@channel")
	assert.Error(t, err)
}

func TestNotify_NoOwner(t *testing.T) {
	b := &Bot{logger: zap.NewNop()}
	assert.Error(t, b.Notify(context.Background(), "weekly"))
}

func TestSendImage_MissingFile(t *testing.T) {
	b := &Bot{logger: zap.NewNop()}
	err := b.SendImage(context.Background(), "42", "/nonexistent/coffee_1.png")
	assert.ErrorContains(t, err, "opening image")
}
