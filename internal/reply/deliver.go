package reply

import (
	"context"
	"errors"
)

// Sender is the part of a chat transport the bot needs.
type Sender interface {
	SendText(ctx context.Context, to, text string) error
	SendImage(ctx context.Context, to, path string) error
}

// DeliveryReport records what happened to each part of a reply.
type DeliveryReport struct {
	ImageSent bool
	ImageErr  error
	TextErr   error
}

// Err joins both failures, nil if everything was sent.
func (r DeliveryReport) Err() error {
	return errors.Join(r.ImageErr, r.TextErr)
}

// Deliver sends the image first, then the text. A failed image never stops
// the text from being sent.
func Deliver(ctx context.Context, s Sender, to string, p Payload) DeliveryReport {
	var r DeliveryReport
	if p.HasImage() {
		if err := s.SendImage(ctx, to, p.Image); err != nil {
			r.ImageErr = err
		} else {
			r.ImageSent = true
		}
	}
	if p.Text != "" {
		r.TextErr = s.SendText(ctx, to, p.Text)
	}
	return r
}
