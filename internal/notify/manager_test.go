package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSlackPoster struct {
	channels []string
	calls    int
	err      error
}

func (m *mockSlackPoster) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	m.calls++
	m.channels = append(m.channels, channelID)
	return channelID, "1700000000.000100", m.err
}

func TestNewManager_Disabled(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	m := NewManager(nil)
	assert.False(t, m.Enabled())
	assert.NoError(t, m.Notify(context.Background(), EventSuccess, "ignored"))
}

func TestNewManager_MissingToken(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("notifications.slack.enabled", true)
	t.Setenv("SLACK_BOT_USER_TOKEN", "")

	var logged []string
	m := NewManager(func(format string, args ...interface{}) { logged = append(logged, format) })
	assert.False(t, m.Enabled())
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "SLACK_BOT_USER_TOKEN not set")
}

func TestManager_Notify(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	poster := &mockSlackPoster{}
	m := NewManagerWithClient(poster, "#perf", nil)

	require.NoError(t, m.Notify(context.Background(), EventSuccess, "sort: fastest is a"))
	assert.Equal(t, []string{"#perf"}, poster.channels)

	viper.Set("notifications.slack.events.on_failure", false)
	require.NoError(t, m.Notify(context.Background(), EventFailure, "boom"))
	assert.Equal(t, 1, poster.calls, "disabled events are not sent")

	poster.err = errors.New("channel_not_found")
	err := m.Notify(context.Background(), EventSuccess, "again")
	assert.ErrorContains(t, err, "channel_not_found")
}

func TestManager_NotifyViaSlackAPI(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	var gotText, gotChannel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "chat.postMessage") {
			http.NotFound(w, r)
			return
		}
		assert.NoError(t, r.ParseForm())
		gotText = r.PostForm.Get("text")
		gotChannel = r.PostForm.Get("channel")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"channel":"C123","ts":"1700000000.000100"}`))
	}))
	defer srv.Close()

	viper.Set("notifications.slack.enabled", true)
	viper.Set("notifications.slack.channel", "#perf")
	viper.Set("notifications.slack.api_url", srv.URL+"/")
	t.Setenv("SLACK_BOT_USER_TOKEN", "xoxb-test")

	m := NewManager(nil)
	require.True(t, m.Enabled())
	require.NoError(t, m.Notify(context.Background(), EventSuccess, CodeBlock("sort\n")))

	assert.Equal(t, "#perf", gotChannel)
	decoded, err := url.QueryUnescape(gotText)
	require.NoError(t, err)
	assert.Equal(t, "```\nsort\n```", decoded)
}
