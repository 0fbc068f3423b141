package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want Route
	}{
		{name: "start", ev: Event{Text: "/start"}, want: Route{Kind: KindStart}},
		{name: "start with bot name", ev: Event{Text: "/start@task_bot"}, want: Route{Kind: KindStart}},
		{name: "start with payload", ev: Event{Text: " /start hello "}, want: Route{Kind: KindStart}},
		{name: "menu", ev: Event{Text: "/menu"}, want: Route{Kind: KindMenuCmd}},
		{name: "other command", ev: Event{Text: "/help"}, want: Route{Kind: KindCommand, Arg: "help"}},
		{name: "plain text", ev: Event{Text: "hello"}, want: Route{Kind: KindText}},
		{name: "role", ev: Event{ID: "1", Data: "role_member"}, want: Route{Kind: KindRole, Arg: "member"}},
		{name: "menu action", ev: Event{ID: "1", Data: "menu_report"}, want: Route{Kind: KindMenu, Arg: "menu_report"}},
		{name: "done", ev: Event{ID: "1", Data: "done_12"}, want: Route{Kind: KindDone, Index: 12}},
		{name: "delete", ev: Event{ID: "1", Data: "delete_0"}, want: Route{Kind: KindDelete}},
		{name: "malformed index", ev: Event{ID: "1", Data: "done_x"}, want: Route{Kind: KindUnknown, Arg: "done_x"}},
		{name: "callback text ignored", ev: Event{ID: "1", Text: "/start", Data: "other"}, want: Route{Kind: KindUnknown, Arg: "other"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ev))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 25))
	assert.Equal(t, "ääää", truncate("äääää", 4))
}
