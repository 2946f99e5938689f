package notify

import (
	"context"

	"github.com/slack-go/slack"
)

// Notifier defines the interface for sending notifications.
type Notifier interface {
	Notify(ctx context.Context, eventType string, message string) error
}

// SlackPoster is the part of the Slack API client the manager uses.
type SlackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}
