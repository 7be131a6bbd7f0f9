// Package taskinput extracts task fields from a free-text description such
// as "Buy milk tomorrow in Groceries".
package taskinput

import (
	"regexp"
	"strings"
)

var (
	dueRegex     = regexp.MustCompile(`(?i)\b(today|tomorrow|next week|on\s+\w+|\d{1,2}/\d{1,2}(?:/\d{2,4})?)\b`)
	projectRegex = regexp.MustCompile(`(?i)\bin\s+([^,]+?)(?:,|\s*$)`)
	spaceRegex   = regexp.MustCompile(`\s{2,}`)
)

// Input is the result of parsing a task description. Empty DueString or
// ProjectName means the field was not found.
type Input struct {
	Content     string
	DueString   string
	ProjectName string
}

// HasDue reports whether a due token was found.
func (in Input) HasDue() bool { return in.DueString != "" }

// HasProject reports whether a project phrase was found.
func (in Input) HasProject() bool { return in.ProjectName != "" }

// Parse extracts a due token and a project name from input and returns
// the remaining text as the task content.
//
// Matching is lenient: the word "in" anywhere in the text starts a project
// phrase and only the first match of each pattern is used. The due token is
// returned verbatim, Todoist interprets it.
func Parse(input string) Input {
	var result Input
	content := input

	dueMatch := dueRegex.FindStringSubmatch(input)
	if len(dueMatch) > 1 {
		result.DueString = dueMatch[1]
	}

	projectMatch := projectRegex.FindStringSubmatch(input)
	if len(projectMatch) > 1 {
		result.ProjectName = strings.TrimSpace(projectMatch[1])
	}

	if dueMatch != nil {
		content = strings.Replace(content, dueMatch[0], "", 1)
	}
	if projectMatch != nil {
		content = strings.Replace(content, projectMatch[0], "", 1)
	}

	result.Content = spaceRegex.ReplaceAllString(strings.TrimSpace(content), " ")
	return result
}
