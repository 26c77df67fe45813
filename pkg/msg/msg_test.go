package msg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FlattensNestedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
bot:
  greeting: |-
    Hi!
    Send me a city name.
  needs-umbrella: "In {0}, take an umbrella"
app:
  started: "Started in {0} mode"
`), 0o600))

	catalog, err := Load(path)
	require.NoError(t, err)

	assert.True(t, catalog.Has("bot.greeting"))
	assert.Equal(t, "Hi!\nSend me a city name.", catalog.GetMessage("bot.greeting"))
	assert.Equal(t, "In Tallinn, take an umbrella", catalog.GetMessage("bot.needs-umbrella", "Tallinn"))
	assert.Equal(t, "Started in polling mode", catalog.GetMessage("app.started", "polling"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestGetMessage(t *testing.T) {
	catalog := NewCatalog(map[string]string{
		"App.Req-End": "{0} {1} -> {2} in {3}",
		"repeat":      "{0} and {0}",
		"object":      "payload {0}",
	})

	tests := []struct {
		name string
		key  string
		args []any
		want string
	}{
		{"mixed primitives", "app.req-end", []any{"GET", "/health", 200, 1.5}, "GET /health -> 200 in 1.5"},
		{"repeated placeholder", "repeat", []any{"rain"}, "rain and rain"},
		{"missing args keep placeholders", "repeat", nil, "{0} and {0}"},
		{"struct is rendered as json", "object", []any{map[string]int{"hours": 6}}, `payload {"hours":6}`},
		{"nil arg", "object", []any{nil}, "payload "},
		{"missing key", "bot.unknown", nil, "Message not found: bot.unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.GetMessage(tt.key, tt.args...))
		})
	}
}

func TestMessagesPath(t *testing.T) {
	t.Setenv("MESSAGES_FILE_PATH", "")
	assert.Equal(t, "configs/messages.yml", MessagesPath())

	t.Setenv("MESSAGES_FILE_PATH", "/etc/umbrella/messages.yml")
	assert.Equal(t, "/etc/umbrella/messages.yml", MessagesPath())
}
