package conversation

import "context"

// Action is a button offered to the user. Token comes back as Event.Data
// when the button is pressed.
type Action struct {
	Label string
	Token string
}

// Messenger delivers outbound messages. eventID is the Event.ID of a button
// press; the controller never interprets it.
type Messenger interface {
	SendText(ctx context.Context, recipientID int64, text string, actions [][]Action) error
	AnswerCallback(ctx context.Context, eventID, alertText string) error
	EditMessage(ctx context.Context, eventID, text string, actions [][]Action) error
}

// column lays actions out one per row.
func column(actions ...Action) [][]Action {
	rows := make([][]Action, 0, len(actions))
	for _, a := range actions {
		rows = append(rows, []Action{a})
	}
	return rows
}
