// Package telegram connects the conversation controller to the Telegram Bot
// API, either by long polling getUpdates or through a webhook.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kazz187/taskbot/internal/conversation"
)

const DefaultEndpoint = "https://api.telegram.org"

var allowedUpdates = []string{"message", "callback_query"}

var _ conversation.Messenger = (*Client)(nil)

// APIError is a response with "ok": false.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// Client sends Bot API requests through tgbotapi. Each call runs on a copy of
// the bot whose HTTP client is bound to the call's context.
type Client struct {
	bot        tgbotapi.BotAPI
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient does not call getMe, so it never touches the network.
func NewClient(endpoint, token string, opts ...ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		bot:        tgbotapi.BotAPI{Token: token},
		httpClient: http.DefaultClient,
	}
	c.bot.SetAPIEndpoint(strings.TrimRight(endpoint, "/") + "/bot%s/%s")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type contextDoer struct {
	ctx    context.Context
	client *http.Client
}

func (d contextDoer) Do(req *http.Request) (*http.Response, error) {
	return d.client.Do(req.WithContext(d.ctx))
}

func (c *Client) api(ctx context.Context) *tgbotapi.BotAPI {
	bot := c.bot
	bot.Client = contextDoer{ctx: ctx, client: c.httpClient}
	return &bot
}

func keyboard(actions [][]conversation.Action) *tgbotapi.InlineKeyboardMarkup {
	if len(actions) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(actions))
	for _, row := range actions {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, a := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(a.Label, a.Token))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string, actions [][]conversation.Action) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if kb := keyboard(actions); kb != nil {
		msg.ReplyMarkup = *kb
	}
	return c.request(ctx, "sendMessage", msg)
}

// AnswerCallback acknowledges a button press. A non-empty alert is shown as a
// dialog.
func (c *Client) AnswerCallback(ctx context.Context, eventID, alert string) error {
	ref, err := parseCallbackRef(eventID)
	if err != nil {
		return err
	}
	cb := tgbotapi.NewCallback(ref.queryID, alert)
	if alert != "" {
		cb = tgbotapi.NewCallbackWithAlert(ref.queryID, alert)
	}
	return c.request(ctx, "answerCallbackQuery", cb)
}

// EditMessage replaces the message that carried the pressed button.
func (c *Client) EditMessage(ctx context.Context, eventID, text string, actions [][]conversation.Action) error {
	ref, err := parseCallbackRef(eventID)
	if err != nil {
		return err
	}
	if ref.messageID == 0 {
		return fmt.Errorf("callback %s has no message to edit", ref.queryID)
	}
	edit := tgbotapi.NewEditMessageText(ref.chatID, int(ref.messageID), text)
	edit.ReplyMarkup = keyboard(actions)
	return c.request(ctx, "editMessageText", edit)
}

// GetUpdates long-polls for updates with update_id >= offset, waiting up to
// timeoutSec seconds for the first one.
func (c *Client) GetUpdates(ctx context.Context, offset, timeoutSec int) ([]tgbotapi.Update, error) {
	cfg := tgbotapi.NewUpdate(offset)
	cfg.Timeout = timeoutSec
	cfg.AllowedUpdates = allowedUpdates
	updates, err := c.api(ctx).GetUpdates(cfg)
	if err != nil {
		return nil, c.wrap("getUpdates", err)
	}
	return updates, nil
}

// request uses Request rather than Send: editMessageText may answer with a
// bare true instead of a Message.
func (c *Client) request(ctx context.Context, method string, chattable tgbotapi.Chattable) error {
	if _, err := c.api(ctx).Request(chattable); err != nil {
		return c.wrap(method, err)
	}
	return nil
}

func (c *Client) wrap(method string, err error) error {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		return &APIError{Method: method, Code: tgErr.Code, Description: tgErr.Message}
	}
	return fmt.Errorf("telegram %s: %w", method, c.redact(err))
}

// redact keeps the bot token out of transport errors, which quote the URL.
func (c *Client) redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && c.bot.Token != "" {
		uerr.URL = strings.ReplaceAll(uerr.URL, c.bot.Token, "<token>")
	}
	return err
}
