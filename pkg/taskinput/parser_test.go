package taskinput

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Input
	}{
		{
			name:  "due tomorrow",
			input: "Buy milk tomorrow",
			want:  Input{Content: "Buy milk", DueString: "tomorrow"},
		},
		{
			name:  "project without recognised date",
			input: "Finish report by Friday in Work",
			want:  Input{Content: "Finish report by Friday", ProjectName: "Work"},
		},
		{
			name:  "due and project",
			input: "Call mom today in Family",
			want:  Input{Content: "Call mom", DueString: "today", ProjectName: "Family"},
		},
		{
			name:  "next week is one token",
			input: "Plan trip next week",
			want:  Input{Content: "Plan trip", DueString: "next week"},
		},
		{
			name:  "on weekday",
			input: "Dentist on Monday",
			want:  Input{Content: "Dentist", DueString: "on Monday"},
		},
		{
			name:  "numeric date with year",
			input: "Pay rent 12/1/2025",
			want:  Input{Content: "Pay rent", DueString: "12/1/2025"},
		},
		{
			name:  "numeric date without year",
			input: "Renew passport 3/14",
			want:  Input{Content: "Renew passport", DueString: "3/14"},
		},
		{
			name:  "case insensitive keeps original casing",
			input: "Water plants TODAY IN Home",
			want:  Input{Content: "Water plants", DueString: "TODAY", ProjectName: "Home"},
		},
		{
			name:  "project stops at comma",
			input: "Write tests in Side Project, urgent",
			want:  Input{Content: "Write tests urgent", ProjectName: "Side Project"},
		},
		{
			name:  "first due match wins",
			input: "Email Bob today or tomorrow",
			want:  Input{Content: "Email Bob or tomorrow", DueString: "today"},
		},
		{
			name:  "inner whitespace collapsed",
			input: "  Clean   the   garage  ",
			want:  Input{Content: "Clean the garage"},
		},
		{
			name:  "in inside words is not a project",
			input: "Print invoice",
			want:  Input{Content: "Print invoice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.input))
		})
	}
}

func TestParseWithoutMarkersKeepsContent(t *testing.T) {
	inputs := []string{
		"Buy milk",
		"  Read a book ",
		"Fix bug #42",
		"",
	}
	for _, input := range inputs {
		got := Parse(input)
		assert.False(t, got.HasDue(), input)
		assert.False(t, got.HasProject(), input)
	}
	assert.Equal(t, "Buy milk", Parse("Buy milk").Content)
	assert.Equal(t, "Read a book", Parse("  Read a book ").Content)
	assert.Equal(t, "Fix bug #42", Parse("Fix bug #42").Content)
	assert.Equal(t, "", Parse("").Content)
}

func TestParseLenientProjectMatch(t *testing.T) {
	got := Parse("Check in with team")
	assert.Equal(t, "with team", got.ProjectName)
	assert.Equal(t, "Check", got.Content)
}
