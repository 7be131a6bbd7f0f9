// Package command turns "/todoist ..." chat commands into Todoist API calls
// and renders the outcome as a reply.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harrisonrobin/todochat/pkg/format"
	"github.com/harrisonrobin/todochat/pkg/model"
	"github.com/harrisonrobin/todochat/pkg/taskinput"
	"github.com/harrisonrobin/todochat/pkg/todoist"
)

// Prefix marks a chat message as a command.
const Prefix = "/todoist"

var (
	prefixRegex        = regexp.MustCompile(`(?i)^/todoist(?:\s+|$)`)
	projectFilterRegex = regexp.MustCompile(`(?i)project:(\w+)`)
)

// TaskService is the part of the Todoist client the dispatcher uses.
type TaskService interface {
	CreateTask(ctx context.Context, task todoist.NewTask) (*model.Task, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	ListTasks(ctx context.Context, filter, projectID string) ([]model.Task, error)
	CloseTask(ctx context.Context, taskID string) (bool, error)
}

// Invocation is a command line split into its action and arguments.
type Invocation struct {
	Action string
	Args   []string
}

// ArgText returns the arguments joined by single spaces.
func (inv Invocation) ArgText() string {
	return strings.Join(inv.Args, " ")
}

// Parse strips the command prefix and splits the rest on whitespace. ok is
// false when nothing follows the prefix.
func Parse(raw string) (inv Invocation, ok bool) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimSpace(prefixRegex.ReplaceAllString(trimmed, ""))
	if trimmed == "" {
		return Invocation{}, false
	}
	parts := strings.Fields(trimmed)
	return Invocation{Action: strings.ToLower(parts[0]), Args: parts[1:]}, true
}

// Dispatcher executes commands against a TaskService. It keeps no state
// between calls.
type Dispatcher struct {
	service TaskService
	logger  *log.Logger
}

// NewDispatcher returns a Dispatcher. A nil logger discards output.
func NewDispatcher(service TaskService, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dispatcher{service: service, logger: logger}
}

// Process runs one command and returns the reply text. It never fails:
// errors and panics are rendered as "Error: ..." replies.
func (d *Dispatcher) Process(ctx context.Context, raw string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("command panicked", "command", raw, "panic", r)
			reply = errorReply(fmt.Sprint(r))
		}
	}()

	inv, ok := Parse(raw)
	if !ok {
		return HelpText()
	}

	d.logger.Debug("dispatching command", "action", inv.Action, "args", len(inv.Args))

	reply, err := d.dispatch(ctx, inv)
	if err != nil {
		return errorReply(err.Error())
	}
	return reply
}

func (d *Dispatcher) dispatch(ctx context.Context, inv Invocation) (string, error) {
	switch inv.Action {
	case "add", "task":
		return d.addTask(ctx, inv.ArgText())

	case "projects", "project", "list-projects":
		return d.listProjects(ctx)

	case "tasks", "list-tasks", "list":
		return d.listTasks(ctx, inv.ArgText())

	case "complete", "done":
		taskID := ""
		if len(inv.Args) > 0 {
			taskID = inv.Args[0]
		}
		return d.completeTask(ctx, taskID)

	case "help":
		return HelpText(), nil

	case "status":
		return d.status(ctx), nil

	default:
		return fmt.Sprintf("Unknown command: %s\n\n%s", inv.Action, HelpText()), nil
	}
}

func (d *Dispatcher) addTask(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "Error: Task content is required", nil
	}

	input := taskinput.Parse(text)

	var projectID string
	if input.HasProject() {
		projects, err := d.service.ListProjects(ctx)
		if err != nil {
			return fmt.Sprintf("Error fetching projects: %s", err), nil
		}
		project, found := findProject(projects, input.ProjectName)
		if !found {
			return projectNotFound(input.ProjectName), nil
		}
		projectID = project.ID
	}

	task, err := d.service.CreateTask(ctx, todoist.NewTask{
		Content:   input.Content,
		DueString: input.DueString,
		ProjectID: projectID,
	})
	if err != nil {
		return fmt.Sprintf("Error adding task: %s", err), nil
	}
	if task == nil {
		return "", errors.New("todoist returned no task")
	}

	return "Task added successfully!\n\n" + format.Task(*task), nil
}

func (d *Dispatcher) listProjects(ctx context.Context) (string, error) {
	projects, err := d.service.ListProjects(ctx)
	if err != nil {
		return fmt.Sprintf("Error fetching projects: %s", err), nil
	}
	if len(projects) == 0 {
		return "No projects found", nil
	}
	return format.ProjectList(projects), nil
}

func (d *Dispatcher) listTasks(ctx context.Context, filter string) (string, error) {
	var projectID string
	if m := projectFilterRegex.FindStringSubmatch(filter); m != nil {
		filter = strings.TrimSpace(strings.Replace(filter, m[0], "", 1))

		projects, err := d.service.ListProjects(ctx)
		if err != nil {
			return fmt.Sprintf("Error fetching tasks: %s", err), nil
		}
		project, found := findProject(projects, m[1])
		if !found {
			return projectNotFound(m[1]), nil
		}
		projectID = project.ID
	}

	tasks, err := d.service.ListTasks(ctx, filter, projectID)
	if err != nil {
		return fmt.Sprintf("Error fetching tasks: %s", err), nil
	}
	if len(tasks) == 0 {
		return "No tasks found matching your criteria", nil
	}
	return format.TaskList(tasks, filter), nil
}

func (d *Dispatcher) completeTask(ctx context.Context, taskID string) (string, error) {
	if taskID == "" {
		return "Error: Task ID is required", nil
	}

	ok, err := d.service.CloseTask(ctx, taskID)
	if err != nil {
		return fmt.Sprintf("Error completing task: %s", err), nil
	}
	if !ok {
		return fmt.Sprintf("Error: Failed to complete task %s", taskID), nil
	}
	return fmt.Sprintf("✅ Task %s marked as complete!", taskID), nil
}

// Status replies.
const (
	StatusOK           = "✅ Todoist connection is working! Your API token is valid."
	StatusUnauthorized = "❌ API token is missing or invalid. Please set your Todoist API token with `todochat token set <token>` or the TODOIST_API_TOKEN environment variable."
)

func (d *Dispatcher) status(ctx context.Context) string {
	if _, err := d.service.ListProjects(ctx); err != nil {
		if todoist.KindOf(err) == todoist.Unauthorized {
			return StatusUnauthorized
		}
		return fmt.Sprintf("❌ Todoist connection error: %s. Please check your internet connection and API token.", err)
	}
	return StatusOK
}

// findProject matches name case-insensitively and exactly.
func findProject(projects []model.Project, name string) (model.Project, bool) {
	for _, p := range projects {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return model.Project{}, false
}

func projectNotFound(name string) string {
	return fmt.Sprintf("Error: Project \"%s\" not found", name)
}

func errorReply(msg string) string {
	if msg == "" {
		msg = "Something went wrong"
	}
	return "Error: " + msg
}
