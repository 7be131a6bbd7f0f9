package command

import "strings"

const helpText = `
📚 Todoist Commands Help

Available commands:

✏️ Add Tasks:
  /todoist add Buy milk tomorrow
  /todoist add Finish report by Friday in Work

📋 View Tasks:
  /todoist tasks
  /todoist tasks today
  /todoist tasks project:Work

📂 View Projects:
  /todoist projects

✅ Complete Tasks:
  /todoist complete TASK_ID

🔍 Check Status:
  /todoist status

❓ Get Help:
  /todoist help

⚙️ Configure:
  todochat token set <token>, or set TODOIST_API_TOKEN
`

// HelpText returns the list of commands and their syntax.
func HelpText() string {
	return strings.TrimSpace(helpText)
}
