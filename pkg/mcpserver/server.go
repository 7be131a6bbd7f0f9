// Package mcpserver exposes the todoist command dispatcher as an MCP tool,
// so any MCP capable chat host can run "/todoist" commands.
package mcpserver

import (
	"context"
	"strings"

	"github.com/harrisonrobin/todochat/pkg/chat"
	"github.com/harrisonrobin/todochat/pkg/command"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TodoistTool is the "todoist" MCP tool.
type TodoistTool struct {
	processor chat.Processor
}

func NewTodoistTool(processor chat.Processor) *TodoistTool {
	return &TodoistTool{processor: processor}
}

// Definition returns the tool schema.
func (t *TodoistTool) Definition() mcp.Tool {
	return mcp.NewTool("todoist",
		mcp.WithDescription("Manage Todoist tasks and projects. Takes the text of a /todoist command, "+
			"for example \"add Buy milk tomorrow in Groceries\", \"tasks today project:Work\", "+
			"\"projects\", \"complete <task id>\", \"status\" or \"help\"."),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Command text, with or without the leading /todoist"),
		),
	)
}

// Handle runs the command and returns the reply as text.
func (t *TodoistTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd, err := req.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(t.processor.Process(ctx, withPrefix(cmd))), nil
}

func withPrefix(cmd string) string {
	cmd = strings.TrimSpace(cmd)
	if chat.IsCommand(cmd) {
		return cmd
	}
	return command.Prefix + " " + cmd
}

// New creates the MCP server with the todoist tool registered.
func New(processor chat.Processor, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"todochat",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Use the todoist tool to add, list and complete Todoist tasks on behalf of the user."),
	)

	tool := NewTodoistTool(processor)
	s.AddTool(tool.Definition(), tool.Handle)
	return s
}
