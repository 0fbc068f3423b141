package responder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_Default(t *testing.T) {
	m := Default()

	tests := []struct {
		in      string
		want    string
		matched bool
	}{
		{"Hello!", "Hello there!", true},
		{"  HOW ARE YOU  ", "I'm a bot, but I'm doing great! How about you?", true},
		{"what can you do", "I can manage tasks, generate reports, and add users. Use the main menu to see the options.", true},
		{"What is your name", "I am a Task Management Bot!", true},
		{"thanks a lot", "You're welcome! Happy to help.", true},
		{"goodbye", "Goodbye! Have a great day.", true},
		// "this" contains "hi", and greetings take precedence.
		{"thank you for this", "Hello there!", true},
		{"qwerty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := m.Match(tt.in)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- pattern: "ping"
  reply: "pong"
- pattern: "p"
  reply: "letter p"
`), 0o644))

	m, err := LoadYAML(path)
	require.NoError(t, err)

	got, ok := m.Match("PING")
	assert.True(t, ok)
	assert.Equal(t, "pong", got)

	got, ok = m.Match("up")
	assert.True(t, ok)
	assert.Equal(t, "letter p", got)

	_, ok = m.Match("hello")
	assert.False(t, ok)
}

func TestLoadYAML_InvalidPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replies.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- pattern: \"(\"\n  reply: x\n"), 0o644))

	_, err := LoadYAML(path)
	assert.Error(t, err)
}
