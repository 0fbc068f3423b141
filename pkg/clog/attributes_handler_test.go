package clog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newJSONLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(NewAttributesHandler(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})))
}

func TestAttributesHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf)

	ctx := ContextWithSlog(context.Background())
	AddAttributes(ctx, map[string]any{
		"user_id":  int64(111111),
		"kind":     "menu",
		"event_id": "01J0000000000000000000000",
		"http":     map[string]any{"status": 200, "method": "POST"},
	})
	logger.InfoContext(ctx, "event handled", "user_id", int64(987654321))

	assert.Equal(t,
		`{"level":"INFO","msg":"event handled","user_id":987654321,`+
			`"event_id":"01J0000000000000000000000","http":{"method":"POST","status":200},"kind":"menu"}`+"\n",
		buf.String())
}

func TestAttributesHandler_WithoutContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	newJSONLogger(&buf).InfoContext(context.Background(), "taskbot started", "mode", "polling")

	assert.Equal(t, `{"level":"INFO","msg":"taskbot started","mode":"polling"}`+"\n", buf.String())
}
