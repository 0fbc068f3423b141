package telegram

import (
	"crypto/subtle"
	"errors"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kazz187/taskbot/pkg/cerr"
)

const (
	SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

	maxUpdateSize = 1 << 20
)

var ErrBadSecret = errors.New("webhook secret mismatch")

// WebhookHandler receives updates pushed by Telegram. It is mounted behind
// cerr.NewJSONChiMiddleware. A handler without a secret rejects everything.
type WebhookHandler struct {
	secret     string
	dispatcher Dispatcher
}

func NewWebhookHandler(secret string, d Dispatcher) *WebhookHandler {
	return &WebhookHandler{secret: secret, dispatcher: d}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(r.Header.Get(SecretTokenHeader)), []byte(h.secret)) != 1 {
		cerr.SetNewJSONError(ctx, cerr.Unauthenticated, "invalid secret token", ErrBadSecret)
		return
	}

	var u tgbotapi.Update
	if err := cerr.DecodeJSON(w, r, maxUpdateSize, &u); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if ev, ok := eventOf(u); ok {
		// Telegram redelivers on non-2xx, so a rejected event still answers 200.
		_ = h.dispatcher.Dispatch(ctx, ev)
	}
}
