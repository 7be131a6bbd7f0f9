// Package format renders Todoist tasks and projects as chat text.
package format

import (
	"fmt"
	"strings"

	"github.com/harrisonrobin/todochat/pkg/model"
)

// priorityLabels maps Todoist priorities to labels. Index 0 is unused.
var priorityLabels = []string{"", "Low", "Medium", "High", "Urgent"}

// PriorityLabel returns the label for a Todoist priority, or "" when the
// priority is out of range.
func PriorityLabel(priority int) string {
	if priority < 0 || priority >= len(priorityLabels) {
		return ""
	}
	return priorityLabels[priority]
}

// Task renders a task as one line per present field.
func Task(task model.Task) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📝 Task: %s\n", task.Content))

	if task.Description != "" {
		b.WriteString(fmt.Sprintf("📄 Description: %s\n", task.Description))
	}

	if task.Due != nil {
		due := task.Due.String
		if due == "" {
			due = task.Due.Date
		}
		b.WriteString(fmt.Sprintf("📅 Due: %s\n", due))
		if task.Due.IsRecurring {
			b.WriteString("🔁 Recurring\n")
		}
	}

	if task.Priority != 0 {
		b.WriteString(fmt.Sprintf("⚠️ Priority: %s\n", PriorityLabel(task.Priority)))
	}

	if task.URL != "" {
		b.WriteString(fmt.Sprintf("🔗 Link: %s\n", task.URL))
	}

	return b.String()
}

// Project renders a single project line, starred when it is a favorite.
func Project(project model.Project) string {
	star := ""
	if project.IsFavorite {
		star = "⭐ "
	}
	return fmt.Sprintf("%s%s (ID: %s)\n", star, project.Name, project.ID)
}

// ProjectList renders the project listing. Callers handle the empty case.
func ProjectList(projects []model.Project) string {
	var b strings.Builder
	b.WriteString("📋 Your Todoist Projects:\n\n")
	for _, p := range projects {
		b.WriteString(Project(p))
	}
	return b.String()
}

// TaskList renders a task listing. Each task is preceded by its ID and
// followed by a separator line.
func TaskList(tasks []model.Task, filter string) string {
	var b strings.Builder
	if filter != "" {
		b.WriteString(fmt.Sprintf("📋 Your Todoist Tasks (Filter: %s):\n\n", filter))
	} else {
		b.WriteString("📋 Your Todoist Tasks:\n\n")
	}
	for _, t := range tasks {
		b.WriteString(fmt.Sprintf("ID: %s\n", t.ID))
		b.WriteString(Task(t))
		b.WriteString("---\n")
	}
	return b.String()
}
