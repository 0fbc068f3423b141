package conversation

import (
	"fmt"

	"github.com/kazz187/taskbot/internal/report"
	"github.com/kazz187/taskbot/internal/role"
	"github.com/kazz187/taskbot/internal/task"
)

const msgAddTaskPrompt = "Please enter the task details. The bot will intelligently extract the user ID and deadline.\n\n" +
	"Examples:\n- `New project for 123456789 by 15/12/2025: Finish the report.`\n" +
	"- `Prepare the presentation for 987654321 by tomorrow.`"

const (
	msgWelcome         = "Welcome! Please select your role:"
	msgRoleSaved       = "✅ Your role as **%s** has been saved."
	msgMainMenu        = "📋 Main Menu:"
	msgNoRole          = "Please use /start and select a role first."
	msgAddMemberPrompt = "Please enter the numeric ID of the new member:"
	msgNoTasksYet      = "📭 No tasks have been created yet."
	msgNothingToDelete = "📭 There are no tasks to delete."
	msgPickDelete      = "Which task would you like to delete?"
	msgNoAssigned      = "You have no assigned tasks."
	msgFallback        = "I'm not sure how to respond to that. Please use /start or the main menu."

	msgNotAMember        = "❌ User **%d** is not a member. Please add them first via the 'Add Member' menu."
	msgTaskAssigned      = "📌 New Task Assigned:\n**%s**%s"
	msgDeadlineInfo      = "\n🕒 Deadline: %s"
	msgTaskSent          = "✅ Task **created and sent to user %d.**"
	msgTaskNotSent       = "✅ Task created, but failed to send notification (Error: %v). The user may have blocked the bot."
	msgDuplicateMember   = "❌ This user has already been added."
	msgMemberAdded       = "✅ User **%d** has been added as a member."
	msgInvalidNumericID  = "❌ The ID must be a numeric value."
	msgTaskCompleted     = "✅ Task completed:\n%s"
	msgAdminCompleted    = "📬 User **%d** completed a task:\n%s"
	msgCompleteNotFound  = "❌ Could not find the task to mark as complete."
	msgTaskDeleted       = "🗑️ Task has been successfully deleted."
	msgDeleteNotFound    = "❌ Could not find the task to delete."
	deleteLabelTextRunes = 25
)

var roleChoice = column(
	Action{Label: "👑 I am an Admin", Token: RoleToken(string(role.Admin))},
	Action{Label: "🙋 I am a Member", Token: RoleToken(string(role.Member))},
)

var adminMenu = column(
	Action{Label: "➕ Add Task", Token: MenuAddTask},
	Action{Label: "👥 Add Member", Token: MenuAddMember},
	Action{Label: "📊 Task Report", Token: MenuReport},
	Action{Label: "🗑️ Delete Task", Token: MenuDeleteTask},
)

var memberMenu = column(
	Action{Label: "📌 My Tasks", Token: MenuMyTasks},
)

// adminOnly lists the menu tokens that need the admin role.
var adminOnly = map[string]bool{
	MenuAddTask:    true,
	MenuAddMember:  true,
	MenuReport:     true,
	MenuDeleteTask: true,
}

func markDoneActions(index int) [][]Action {
	return column(Action{Label: "✅ Mark as Done", Token: DoneToken(index)})
}

func deleteActions(tasks []task.Task) [][]Action {
	actions := make([]Action, 0, len(tasks))
	for i, t := range tasks {
		actions = append(actions, Action{
			Label: fmt.Sprintf("%d. 👤 %d | %s | %s...", i+1, t.UserID, report.DoneMark(t.Done), truncate(t.Text, deleteLabelTextRunes)),
			Token: DeleteToken(i),
		})
	}
	return column(actions...)
}

func assignmentText(t task.Task) string {
	info := ""
	if t.Deadline.IsSet() {
		info = fmt.Sprintf(msgDeadlineInfo, t.Deadline)
	}
	return fmt.Sprintf(msgTaskAssigned, t.Text, info)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
