package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harrisonrobin/todochat/pkg/model"
	"github.com/harrisonrobin/todochat/pkg/todoist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService records calls and returns canned responses.
type fakeService struct {
	projects    []model.Project
	projectsErr error
	tasks       []model.Task
	tasksErr    error
	created     *model.Task
	createErr   error
	closeOK     bool
	closeErr    error

	createCalls  []todoist.NewTask
	listCalls    [][2]string
	closeCalls   []string
	projectCalls int
}

func (f *fakeService) CreateTask(ctx context.Context, task todoist.NewTask) (*model.Task, error) {
	f.createCalls = append(f.createCalls, task)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.created != nil {
		return f.created, nil
	}
	return &model.Task{ID: "100", Content: task.Content}, nil
}

func (f *fakeService) ListProjects(ctx context.Context) ([]model.Project, error) {
	f.projectCalls++
	return f.projects, f.projectsErr
}

func (f *fakeService) ListTasks(ctx context.Context, filter, projectID string) ([]model.Task, error) {
	f.listCalls = append(f.listCalls, [2]string{filter, projectID})
	return f.tasks, f.tasksErr
}

func (f *fakeService) CloseTask(ctx context.Context, taskID string) (bool, error) {
	f.closeCalls = append(f.closeCalls, taskID)
	return f.closeOK, f.closeErr
}

func (f *fakeService) remoteCalls() int {
	return len(f.createCalls) + len(f.listCalls) + len(f.closeCalls) + f.projectCalls
}

type panicService struct{ fakeService }

func (p *panicService) ListProjects(ctx context.Context) ([]model.Project, error) {
	panic("boom")
}

var testProjects = []model.Project{
	{ID: "1", Name: "Inbox"},
	{ID: "2", Name: "Work", IsFavorite: true},
}

func process(svc TaskService, raw string) string {
	return NewDispatcher(svc, nil).Process(context.Background(), raw)
}

func TestParse(t *testing.T) {
	inv, ok := Parse("  /TODOIST   Add  Buy   milk ")
	require.True(t, ok)
	assert.Equal(t, "add", inv.Action)
	assert.Equal(t, []string{"Buy", "milk"}, inv.Args)
	assert.Equal(t, "Buy milk", inv.ArgText())

	_, ok = Parse("/todoist")
	assert.False(t, ok)
	_, ok = Parse("/todoist   ")
	assert.False(t, ok)

	inv, ok = Parse("/todoistx help")
	require.True(t, ok)
	assert.Equal(t, "/todoistx", inv.Action)
}

func TestHelp(t *testing.T) {
	svc := &fakeService{}
	assert.Equal(t, HelpText(), process(svc, "/todoist"))
	assert.Equal(t, HelpText(), process(svc, "/todoist  "))
	assert.Equal(t, HelpText(), process(svc, "/todoist help"))
	assert.Equal(t, HelpText(), process(svc, "/todoist HELP"))
	assert.Zero(t, svc.remoteCalls())
	assert.True(t, strings.HasPrefix(HelpText(), "📚"))
}

func TestUnknownCommand(t *testing.T) {
	got := process(&fakeService{}, "/todoist Frobnicate now")
	assert.Equal(t, "Unknown command: frobnicate\n\n"+HelpText(), got)
}

func TestAddTask(t *testing.T) {
	svc := &fakeService{created: &model.Task{ID: "5", Content: "Buy milk", Due: &model.Due{String: "tomorrow"}}}

	got := process(svc, "/todoist add Buy milk tomorrow")

	assert.Equal(t, "Task added successfully!\n\n📝 Task: Buy milk\n📅 Due: tomorrow\n", got)
	require.Len(t, svc.createCalls, 1)
	assert.Equal(t, todoist.NewTask{Content: "Buy milk", DueString: "tomorrow"}, svc.createCalls[0])
	assert.Zero(t, svc.projectCalls)
}

func TestAddTaskAlias(t *testing.T) {
	svc := &fakeService{}
	got := process(svc, "/todoist task Read book")
	assert.Contains(t, got, "Task added successfully!")
	require.Len(t, svc.createCalls, 1)
	assert.Equal(t, "Read book", svc.createCalls[0].Content)
}

func TestAddTaskResolvesProject(t *testing.T) {
	svc := &fakeService{projects: testProjects}

	process(svc, "/todoist add Finish report by Friday in work")

	require.Len(t, svc.createCalls, 1)
	assert.Equal(t, todoist.NewTask{Content: "Finish report by Friday", ProjectID: "2"}, svc.createCalls[0])
}

func TestAddTaskUnknownProject(t *testing.T) {
	svc := &fakeService{projects: testProjects}

	got := process(svc, "/todoist add Buy milk in Groceries")

	assert.Equal(t, `Error: Project "Groceries" not found`, got)
	assert.Empty(t, svc.createCalls)
}

func TestAddTaskRequiresContent(t *testing.T) {
	svc := &fakeService{}
	assert.Equal(t, "Error: Task content is required", process(svc, "/todoist add"))
	assert.Zero(t, svc.remoteCalls())
}

func TestAddTaskErrors(t *testing.T) {
	svc := &fakeService{projectsErr: errors.New("timeout")}
	assert.Equal(t, "Error fetching projects: timeout", process(svc, "/todoist add X in Work"))

	svc = &fakeService{createErr: errors.New("request failed with status code 400")}
	assert.Equal(t, "Error adding task: request failed with status code 400", process(svc, "/todoist add X"))
}

func TestListProjects(t *testing.T) {
	for _, cmd := range []string{"projects", "project", "list-projects"} {
		svc := &fakeService{projects: testProjects}
		got := process(svc, "/todoist "+cmd)
		assert.Equal(t, "📋 Your Todoist Projects:\n\nInbox (ID: 1)\n⭐ Work (ID: 2)\n", got, cmd)
	}
}

func TestListProjectsIdempotent(t *testing.T) {
	svc := &fakeService{projects: testProjects}
	first := process(svc, "/todoist projects")
	second := process(svc, "/todoist projects")
	assert.Equal(t, first, second)
	assert.Equal(t, 2, svc.projectCalls)
}

func TestListProjectsEmptyAndError(t *testing.T) {
	assert.Equal(t, "No projects found", process(&fakeService{}, "/todoist projects"))
	assert.Equal(t, "Error fetching projects: offline",
		process(&fakeService{projectsErr: errors.New("offline")}, "/todoist projects"))
}

func TestListTasks(t *testing.T) {
	svc := &fakeService{tasks: []model.Task{{ID: "9", Content: "Ship"}}}

	got := process(svc, "/todoist tasks today")

	assert.Equal(t, "📋 Your Todoist Tasks (Filter: today):\n\nID: 9\n📝 Task: Ship\n---\n", got)
	require.Len(t, svc.listCalls, 1)
	assert.Equal(t, [2]string{"today", ""}, svc.listCalls[0])
}

func TestListTasksProjectFilter(t *testing.T) {
	svc := &fakeService{projects: testProjects, tasks: []model.Task{{ID: "9", Content: "Ship"}}}

	process(svc, "/todoist list today project:WORK")

	require.Len(t, svc.listCalls, 1)
	assert.Equal(t, [2]string{"today", "2"}, svc.listCalls[0])
}

func TestListTasksUnknownProject(t *testing.T) {
	svc := &fakeService{projects: testProjects}

	got := process(svc, "/todoist tasks project:Unknown")

	assert.Equal(t, `Error: Project "Unknown" not found`, got)
	assert.Empty(t, svc.listCalls)
}

func TestListTasksEmptyAndError(t *testing.T) {
	assert.Equal(t, "No tasks found matching your criteria", process(&fakeService{}, "/todoist list-tasks"))
	assert.Equal(t, "Error fetching tasks: offline",
		process(&fakeService{tasksErr: errors.New("offline")}, "/todoist tasks"))
	assert.Equal(t, "Error fetching tasks: offline",
		process(&fakeService{projectsErr: errors.New("offline")}, "/todoist tasks project:Work"))
}

func TestCompleteTask(t *testing.T) {
	svc := &fakeService{closeOK: true}
	assert.Equal(t, "✅ Task 2995104339 marked as complete!", process(svc, "/todoist complete 2995104339"))
	assert.Equal(t, []string{"2995104339"}, svc.closeCalls)

	svc = &fakeService{closeOK: false}
	assert.Equal(t, "Error: Failed to complete task 42", process(svc, "/todoist done 42"))

	svc = &fakeService{closeErr: errors.New("not found")}
	assert.Equal(t, "Error completing task: not found", process(svc, "/todoist done 42"))
}

func TestCompleteTaskRequiresID(t *testing.T) {
	svc := &fakeService{}
	assert.Equal(t, "Error: Task ID is required", process(svc, "/todoist complete"))
	assert.Zero(t, svc.remoteCalls())
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusOK, process(&fakeService{}, "/todoist status"))

	unauthorized := &todoist.Error{
		Op:         todoist.OpListProjects,
		Kind:       todoist.Unauthorized,
		StatusCode: 401,
		Err:        errors.New("request failed with status code 401"),
	}
	assert.Equal(t, StatusUnauthorized, process(&fakeService{projectsErr: unauthorized}, "/todoist status"))

	network := &todoist.Error{Kind: todoist.NetworkError, Err: errors.New("dial tcp: connection refused")}
	assert.Equal(t,
		"❌ Todoist connection error: dial tcp: connection refused. Please check your internet connection and API token.",
		process(&fakeService{projectsErr: network}, "/todoist status"))
}

func TestPanicBecomesError(t *testing.T) {
	got := process(&panicService{}, "/todoist projects")
	assert.Equal(t, "Error: boom", got)
}

func TestNilTaskBecomesError(t *testing.T) {
	svc := &nilTaskService{}
	assert.Equal(t, "Error: todoist returned no task", process(svc, "/todoist add X"))
}

type nilTaskService struct{ fakeService }

func (n *nilTaskService) CreateTask(ctx context.Context, task todoist.NewTask) (*model.Task, error) {
	return nil, nil
}

func TestErrorReplyDefault(t *testing.T) {
	assert.Equal(t, "Error: Something went wrong", errorReply(""))
}
