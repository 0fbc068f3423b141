package conversation

import (
	"strconv"
	"strings"
)

// Event is one inbound interaction. Button presses carry ID and Data;
// messages carry Text.
type Event struct {
	ID     string
	UserID int64
	Text   string
	Data   string
}

func (e Event) IsCallback() bool {
	return e.ID != ""
}

type Kind string

const (
	KindStart   Kind = "start"
	KindMenuCmd Kind = "menu_command"
	KindCommand Kind = "command"
	KindRole    Kind = "role"
	KindMenu    Kind = "menu"
	KindDone    Kind = "done"
	KindDelete  Kind = "delete"
	KindText    Kind = "text"
	KindUnknown Kind = "unknown"
)

const (
	rolePrefix   = "role_"
	menuPrefix   = "menu_"
	donePrefix   = "done_"
	deletePrefix = "delete_"

	MenuAddTask    = menuPrefix + "add_task"
	MenuAddMember  = menuPrefix + "add_member"
	MenuReport     = menuPrefix + "report"
	MenuDeleteTask = menuPrefix + "delete_task"
	MenuMyTasks    = menuPrefix + "my_tasks"
)

func RoleToken(r string) string { return rolePrefix + r }

func DoneToken(index int) string { return donePrefix + strconv.Itoa(index) }

func DeleteToken(index int) string { return deletePrefix + strconv.Itoa(index) }

// Route is the classified form of an Event.
type Route struct {
	Kind  Kind
	Arg   string // role name or menu token
	Index int    // task index for done/delete
}

// Classify decides what an event asks for. Button data wins over text.
func Classify(e Event) Route {
	if e.IsCallback() {
		return classifyData(e.Data)
	}
	text := strings.TrimSpace(e.Text)
	if !strings.HasPrefix(text, "/") {
		return Route{Kind: KindText}
	}
	// "/start@my_bot payload" → "start"
	cmd := strings.TrimPrefix(strings.Fields(text)[0], "/")
	cmd, _, _ = strings.Cut(cmd, "@")
	switch cmd {
	case "start":
		return Route{Kind: KindStart}
	case "menu":
		return Route{Kind: KindMenuCmd}
	}
	return Route{Kind: KindCommand, Arg: cmd}
}

func classifyData(data string) Route {
	switch {
	case strings.HasPrefix(data, rolePrefix):
		return Route{Kind: KindRole, Arg: strings.TrimPrefix(data, rolePrefix)}
	case strings.HasPrefix(data, menuPrefix):
		return Route{Kind: KindMenu, Arg: data}
	case strings.HasPrefix(data, donePrefix):
		if i, err := strconv.Atoi(strings.TrimPrefix(data, donePrefix)); err == nil {
			return Route{Kind: KindDone, Index: i}
		}
	case strings.HasPrefix(data, deletePrefix):
		if i, err := strconv.Atoi(strings.TrimPrefix(data, deletePrefix)); err == nil {
			return Route{Kind: KindDelete, Index: i}
		}
	}
	return Route{Kind: KindUnknown, Arg: data}
}
