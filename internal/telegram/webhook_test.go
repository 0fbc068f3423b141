package telegram

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskbot/pkg/cerr"
)

func newWebhookRouter(secret string, d Dispatcher) http.Handler {
	r := chi.NewRouter()
	r.Use(cerr.NewJSONChiMiddleware())
	r.Post("/telegram/webhook", NewWebhookHandler(secret, d).Handle)
	return r
}

func postUpdate(h http.Handler, secret, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body))
	if secret != "" {
		req.Header.Set(SecretTokenHeader, secret)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const startUpdate = `{"update_id":1,"message":{"message_id":1,"from":{"id":5},"chat":{"id":5},"text":"/start"}}`

func TestWebhook_Dispatches(t *testing.T) {
	d := &recordingDispatcher{}
	rec := postUpdate(newWebhookRouter("s3cret", d), "s3cret", startUpdate)

	assert.Equal(t, http.StatusOK, rec.Code)
	events := d.received()
	require.Len(t, events, 1)
	assert.Equal(t, int64(5), events[0].UserID)
	assert.Equal(t, "/start", events[0].Text)
}

func TestWebhook_RejectsBadSecret(t *testing.T) {
	d := &recordingDispatcher{}
	h := newWebhookRouter("s3cret", d)

	for _, secret := range []string{"", "wrong"} {
		rec := postUpdate(h, secret, startUpdate)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"code":"unauthenticated","message":"invalid secret token"}`, rec.Body.String())
	}
	assert.Empty(t, d.received())
}

func TestWebhook_RejectsWhenNoSecretConfigured(t *testing.T) {
	d := &recordingDispatcher{}
	rec := postUpdate(newWebhookRouter("", d), "", startUpdate)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, d.received())
}

func TestWebhook_RejectsMalformedBody(t *testing.T) {
	d := &recordingDispatcher{}
	rec := postUpdate(newWebhookRouter("s3cret", d), "s3cret", `{"update_id":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, d.received())
}

func TestWebhook_IgnoresUnsupportedUpdates(t *testing.T) {
	d := &recordingDispatcher{}
	rec := postUpdate(newWebhookRouter("s3cret", d), "s3cret", `{"update_id":2,"edited_message":{"message_id":1}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, d.received())
}
