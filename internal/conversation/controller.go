// Package conversation drives the chat dialogue: role selection, the role
// menus, the two multi-step inputs (new task, new member) and the task
// buttons. It talks to users only through a Messenger.
package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kazz187/taskbot/internal/eventbus"
	"github.com/kazz187/taskbot/internal/report"
	"github.com/kazz187/taskbot/internal/responder"
	"github.com/kazz187/taskbot/internal/role"
	"github.com/kazz187/taskbot/internal/task"
	"github.com/kazz187/taskbot/internal/taskparse"
	"github.com/kazz187/taskbot/pkg/cerr"
)

type Controller struct {
	tasks     task.Repository
	roles     role.Repository
	responder *responder.Matcher
	messenger Messenger
	bus       *eventbus.Bus
	now       func() time.Time
	states    *stateStore
}

type Option func(*Controller)

// WithClock sets the clock used for relative deadlines and reports. Its
// location decides what "today" is.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithEventBus publishes a change event after every successful mutation.
func WithEventBus(bus *eventbus.Bus) Option {
	return func(c *Controller) {
		c.bus = bus
	}
}

func New(tasks task.Repository, roles role.Repository, r *responder.Matcher, m Messenger, opts ...Option) *Controller {
	c := &Controller{
		tasks:     tasks,
		roles:     roles,
		responder: r,
		messenger: m,
		now:       time.Now,
		states:    newStateStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports the pending input state of userID.
func (c *Controller) State(userID int64) State {
	return c.states.get(userID)
}

// Handle processes one inbound event. The returned error is the domain error
// that was already reported to the user; callers only log it.
func (c *Controller) Handle(ctx context.Context, ev Event) error {
	route := Classify(ev)
	switch route.Kind {
	case KindStart:
		c.reply(ctx, ev.UserID, msgWelcome, roleChoice)
		return nil
	case KindMenuCmd:
		c.sendMainMenu(ctx, ev.UserID)
		return nil
	case KindCommand:
		return nil
	case KindText:
		return c.handleText(ctx, ev)
	}
	return c.handleCallback(ctx, ev, route)
}

func (c *Controller) handleCallback(ctx context.Context, ev Event, route Route) error {
	gated := route.Kind == KindDelete || (route.Kind == KindMenu && adminOnly[route.Arg])
	if gated {
		if err := c.requireAdmin(ctx, ev.UserID); err != nil {
			c.answer(ctx, ev.ID, userText(err))
			return err
		}
	}
	c.answer(ctx, ev.ID, "")

	switch route.Kind {
	case KindRole:
		return c.chooseRole(ctx, ev, route.Arg)
	case KindMenu:
		return c.openMenu(ctx, ev.UserID, route.Arg)
	case KindDone:
		return c.completeTask(ctx, ev, route.Index)
	case KindDelete:
		return c.deleteTask(ctx, ev, route.Index)
	}
	slog.DebugContext(ctx, "ignoring unknown callback data", "data", route.Arg)
	return nil
}

func (c *Controller) requireAdmin(ctx context.Context, userID int64) error {
	if r, ok := c.roles.GetRole(ctx, userID); ok && r == role.Admin {
		return nil
	}
	return cerr.NewError(cerr.PermissionDenied, msgPermissionDenied, ErrPermissionDenied)
}

func (c *Controller) chooseRole(ctx context.Context, ev Event, name string) error {
	r, ok := role.Parse(name)
	if !ok {
		slog.DebugContext(ctx, "ignoring unknown role", "role", name)
		return nil
	}
	if err := c.roles.SetRole(ctx, ev.UserID, r); err != nil {
		c.edit(ctx, ev.ID, userText(err), nil)
		return err
	}
	c.publish(eventbus.Event{Type: eventbus.TypeRoleAssigned, ActorID: ev.UserID, UserID: ev.UserID, Detail: string(r)})
	c.edit(ctx, ev.ID, fmt.Sprintf(msgRoleSaved, r), nil)
	c.sendMainMenu(ctx, ev.UserID)
	return nil
}

func (c *Controller) sendMainMenu(ctx context.Context, userID int64) {
	r, ok := c.roles.GetRole(ctx, userID)
	switch {
	case !ok:
		c.reply(ctx, userID, msgNoRole, nil)
	case r == role.Admin:
		c.reply(ctx, userID, msgMainMenu, adminMenu)
	default:
		c.reply(ctx, userID, msgMainMenu, memberMenu)
	}
}

func (c *Controller) openMenu(ctx context.Context, userID int64, token string) error {
	switch token {
	case MenuAddTask:
		c.states.set(userID, StateAwaitingTaskText)
		c.reply(ctx, userID, msgAddTaskPrompt, nil)
	case MenuAddMember:
		c.states.set(userID, StateAwaitingMemberID)
		c.reply(ctx, userID, msgAddMemberPrompt, nil)
	case MenuReport:
		return c.sendReport(ctx, userID)
	case MenuDeleteTask:
		return c.sendDeleteChoices(ctx, userID)
	case MenuMyTasks:
		return c.sendMyTasks(ctx, userID)
	default:
		slog.DebugContext(ctx, "ignoring unknown menu action", "action", token)
	}
	return nil
}

func (c *Controller) sendReport(ctx context.Context, userID int64) error {
	tasks, err := c.tasks.ListTasks(ctx)
	if err != nil {
		return c.fail(ctx, userID, err)
	}
	if len(tasks) == 0 {
		c.reply(ctx, userID, msgNoTasksYet, nil)
		return nil
	}
	c.reply(ctx, userID, report.Format(tasks, c.now()), nil)
	return nil
}

func (c *Controller) sendDeleteChoices(ctx context.Context, userID int64) error {
	tasks, err := c.tasks.ListTasks(ctx)
	if err != nil {
		return c.fail(ctx, userID, err)
	}
	if len(tasks) == 0 {
		c.reply(ctx, userID, msgNothingToDelete, nil)
		return nil
	}
	c.reply(ctx, userID, msgPickDelete, deleteActions(tasks))
	return nil
}

func (c *Controller) sendMyTasks(ctx context.Context, userID int64) error {
	tasks, err := c.tasks.ListTasks(ctx)
	if err != nil {
		return c.fail(ctx, userID, err)
	}
	mine := task.FilterByUser(tasks, userID)
	if len(mine) == 0 {
		c.reply(ctx, userID, msgNoAssigned, nil)
		return nil
	}
	c.reply(ctx, userID, report.Format(mine, c.now()), nil)
	return nil
}

// handleText reads a plain message according to the sender's pending state.
// A pending state is consumed by the message whatever the outcome, and the
// main menu is shown again afterwards.
func (c *Controller) handleText(ctx context.Context, ev Event) error {
	st := c.states.take(ev.UserID)
	if st == StateNone {
		c.chat(ctx, ev)
		return nil
	}
	defer c.sendMainMenu(ctx, ev.UserID)

	if err := c.requireAdmin(ctx, ev.UserID); err != nil {
		return c.fail(ctx, ev.UserID, err)
	}
	switch st {
	case StateAwaitingTaskText:
		return c.createTask(ctx, ev)
	case StateAwaitingMemberID:
		return c.addMember(ctx, ev)
	}
	return nil
}

func (c *Controller) chat(ctx context.Context, ev Event) {
	if answer, ok := c.responder.Match(strings.TrimSpace(ev.Text)); ok {
		c.reply(ctx, ev.UserID, answer, nil)
		return
	}
	c.reply(ctx, ev.UserID, msgFallback, nil)
}

func (c *Controller) createTask(ctx context.Context, ev Event) error {
	t, err := taskparse.Parse(ev.Text, c.now())
	if err != nil {
		return c.fail(ctx, ev.UserID, err)
	}
	if r, ok := c.roles.GetRole(ctx, t.UserID); !ok || r != role.Member {
		return c.fail(ctx, ev.UserID, cerr.NewError(cerr.FailedPrecondition,
			fmt.Sprintf(msgNotAMember, t.UserID), ErrNotAMember))
	}

	index, err := c.tasks.AddTask(ctx, t)
	if err != nil {
		return c.fail(ctx, ev.UserID, err)
	}
	c.publish(eventbus.Event{Type: eventbus.TypeTaskCreated, ActorID: ev.UserID, UserID: t.UserID, TaskIndex: eventbus.Index(index), Detail: t.Text})

	if err := c.messenger.SendText(ctx, t.UserID, assignmentText(t), markDoneActions(index)); err != nil {
		slog.ErrorContext(ctx, "failed to send task notification", "recipient_id", t.UserID, "error", err)
		return c.fail(ctx, ev.UserID, cerr.NewError(cerr.Unavailable,
			fmt.Sprintf(msgTaskNotSent, err), fmt.Errorf("%w: %w", ErrNotificationFailed, err)))
	}
	c.reply(ctx, ev.UserID, fmt.Sprintf(msgTaskSent, t.UserID), nil)
	return nil
}

func (c *Controller) addMember(ctx context.Context, ev Event) error {
	id, err := strconv.ParseInt(strings.TrimSpace(ev.Text), 10, 64)
	if err != nil {
		return c.fail(ctx, ev.UserID, cerr.NewError(cerr.InvalidArgument, msgInvalidNumericID,
			fmt.Errorf("%w: %w", ErrInvalidNumericID, err)))
	}
	added, err := c.roles.AddIfAbsent(ctx, id, role.Member)
	if err != nil {
		return c.fail(ctx, ev.UserID, err)
	}
	if !added {
		return c.fail(ctx, ev.UserID, cerr.NewError(cerr.AlreadyExists, msgDuplicateMember, ErrDuplicateMember))
	}
	c.publish(eventbus.Event{Type: eventbus.TypeMemberAdded, ActorID: ev.UserID, UserID: id})
	c.reply(ctx, ev.UserID, fmt.Sprintf(msgMemberAdded, id), nil)
	return nil
}

func (c *Controller) completeTask(ctx context.Context, ev Event, index int) error {
	t, ok, err := c.tasks.CompleteTask(ctx, index)
	if err != nil {
		c.edit(ctx, ev.ID, userText(err), nil)
		return err
	}
	if !ok {
		err := cerr.NewError(cerr.NotFound, msgCompleteNotFound, ErrTaskNotFound)
		c.edit(ctx, ev.ID, err.Msg, nil)
		return err
	}
	c.publish(eventbus.Event{Type: eventbus.TypeTaskCompleted, ActorID: ev.UserID, UserID: t.UserID, TaskIndex: eventbus.Index(index), Detail: t.Text})
	c.edit(ctx, ev.ID, fmt.Sprintf(msgTaskCompleted, t.Text), nil)
	c.notifyAdmins(ctx, fmt.Sprintf(msgAdminCompleted, t.UserID, t.Text))
	return nil
}

func (c *Controller) deleteTask(ctx context.Context, ev Event, index int) error {
	ok, err := c.tasks.DeleteTask(ctx, index)
	if err != nil {
		c.edit(ctx, ev.ID, userText(err), nil)
		return err
	}
	if !ok {
		err := cerr.NewError(cerr.NotFound, msgDeleteNotFound, ErrTaskNotFound)
		c.edit(ctx, ev.ID, err.Msg, nil)
		return err
	}
	c.publish(eventbus.Event{Type: eventbus.TypeTaskDeleted, ActorID: ev.UserID, TaskIndex: eventbus.Index(index)})
	c.edit(ctx, ev.ID, msgTaskDeleted, nil)
	return nil
}

// fail tells userID about err and returns it.
func (c *Controller) fail(ctx context.Context, userID int64, err error) error {
	c.reply(ctx, userID, userText(err), nil)
	return err
}

func (c *Controller) reply(ctx context.Context, userID int64, text string, actions [][]Action) {
	if err := c.messenger.SendText(ctx, userID, text, actions); err != nil {
		slog.WarnContext(ctx, "failed to send message", "recipient_id", userID, "error", err)
	}
}

func (c *Controller) answer(ctx context.Context, eventID, alert string) {
	if err := c.messenger.AnswerCallback(ctx, eventID, alert); err != nil {
		slog.WarnContext(ctx, "failed to answer callback", "error", err)
	}
}

func (c *Controller) edit(ctx context.Context, eventID, text string, actions [][]Action) {
	if err := c.messenger.EditMessage(ctx, eventID, text, actions); err != nil {
		slog.WarnContext(ctx, "failed to edit message", "error", err)
	}
}

func (c *Controller) publish(ev eventbus.Event) {
	if c.bus == nil {
		return
	}
	c.bus.PublishNew(ev)
}
