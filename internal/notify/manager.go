package notify

import (
	"context"
	"fmt"
	"os"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

// Event types
const (
	EventSuccess = "on_success"
	EventFailure = "on_failure"
)

// Manager posts comparison summaries to Slack when enabled.
type Manager struct {
	client    SlackPoster
	channelID string

	logger func(string, ...interface{})
}

// NewManager creates a new Notification Manager from the loaded configuration.
// Without SLACK_BOT_USER_TOKEN the manager is inert.
func NewManager(logger func(string, ...interface{})) *Manager {
	m := &Manager{logger: logger}

	if !viper.GetBool("notifications.slack.enabled") {
		return m
	}

	botToken := os.Getenv("SLACK_BOT_USER_TOKEN")
	if botToken == "" {
		m.logf("Warning: SLACK_BOT_USER_TOKEN not set, slack notifications disabled")
		return m
	}

	var opts []slack.Option
	if apiURL := viper.GetString("notifications.slack.api_url"); apiURL != "" {
		opts = append(opts, slack.OptionAPIURL(apiURL))
	}
	m.client = slack.New(botToken, opts...)
	m.channelID = viper.GetString("notifications.slack.channel")
	return m
}

// NewManagerWithClient builds a manager around an existing poster.
func NewManagerWithClient(client SlackPoster, channelID string, logger func(string, ...interface{})) *Manager {
	return &Manager{client: client, channelID: channelID, logger: logger}
}

// Enabled reports whether notifications will be sent at all.
func (m *Manager) Enabled() bool {
	return m.client != nil
}

// Notify sends message if the event is enabled in configuration.
func (m *Manager) Notify(ctx context.Context, eventType string, message string) error {
	if m.client == nil || !m.isEnabled(eventType) {
		return nil
	}

	m.logf("Sending notification for event: %s", eventType)

	channelID := m.channelID
	if channelID == "" {
		channelID = "#benchmarks"
	}

	_, _, err := m.client.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(message, false),
	)
	if err != nil {
		return fmt.Errorf("failed to send slack notification: %w", err)
	}
	return nil
}

func (m *Manager) isEnabled(eventType string) bool {
	key := "notifications.slack.events." + eventType
	if !viper.IsSet(key) {
		return true
	}
	return viper.GetBool(key)
}

func (m *Manager) logf(format string, args ...interface{}) {
	if m.logger != nil {
		m.logger(format, args...)
	}
}

// CodeBlock wraps text in a Slack preformatted block.
func CodeBlock(text string) string {
	return "```\n" + text + "```"
}
