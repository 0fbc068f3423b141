package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kazz187/taskbot/internal/conversation"
)

// eventOf converts u into a conversation event. Updates other than text
// messages and button presses report false.
func eventOf(u tgbotapi.Update) (conversation.Event, bool) {
	switch {
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		q := u.CallbackQuery
		ref := callbackRef{queryID: q.ID, chatID: q.From.ID}
		if q.Message != nil {
			if q.Message.Chat != nil {
				ref.chatID = q.Message.Chat.ID
			}
			ref.messageID = int64(q.Message.MessageID)
		}
		return conversation.Event{ID: ref.String(), UserID: q.From.ID, Data: q.Data}, true
	case u.Message != nil && u.Message.From != nil && u.Message.Text != "":
		return conversation.Event{UserID: u.Message.From.ID, Text: u.Message.Text}, true
	}
	return conversation.Event{}, false
}

// callbackRef is everything needed to answer a button press and edit the
// message it came from, packed into conversation.Event.ID.
type callbackRef struct {
	queryID   string
	chatID    int64
	messageID int64
}

func (r callbackRef) String() string {
	return fmt.Sprintf("%s:%d:%d", r.queryID, r.chatID, r.messageID)
}

func parseCallbackRef(s string) (callbackRef, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" {
		return callbackRef{}, fmt.Errorf("malformed callback reference %q", s)
	}
	chatID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return callbackRef{}, fmt.Errorf("malformed callback reference %q: %w", s, err)
	}
	messageID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return callbackRef{}, fmt.Errorf("malformed callback reference %q: %w", s, err)
	}
	return callbackRef{queryID: parts[0], chatID: chatID, messageID: messageID}, nil
}
