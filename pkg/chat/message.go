// Package chat connects the command dispatcher to a chat host: it diverts
// "/todoist" messages away from the model and answers them in the thread.
package chat

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// BlockType values.
const (
	BlockText  = "text"
	BlockImage = "image_url"
)

// Block is one element of structured message content.
type Block struct {
	Type string
	Text string
	URL  string
}

// Content is either plain text or a list of blocks. The zero value is
// empty text.
type Content struct {
	text   string
	blocks []Block
	isText bool
}

// Text returns content made of a plain string.
func Text(s string) Content {
	return Content{text: s, isText: true}
}

// Blocks returns content made of structured blocks.
func Blocks(blocks ...Block) Content {
	return Content{blocks: blocks}
}

// IsBlocks reports whether c holds structured blocks.
func (c Content) IsBlocks() bool { return !c.isText && c.blocks != nil }

// BlockList returns the blocks of c, nil for plain text.
func (c Content) BlockList() []Block { return c.blocks }

// Text returns the plain string, or the text of the first text block.
func (c Content) Text() string {
	if !c.IsBlocks() {
		return c.text
	}
	for _, b := range c.blocks {
		if b.Type == BlockText && b.Text != "" {
			return b.Text
		}
	}
	return ""
}

// IsEmpty reports whether c carries no text.
func (c Content) IsEmpty() bool { return c.Text() == "" }

// Message is a chat message.
type Message struct {
	ID          string
	ThreadID    string
	Role        string
	Content     Content
	AssistantID string
	Model       string
	CreatedAt   time.Time
}

// IsCommand reports whether text is addressed to the command dispatcher.
func IsCommand(text string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(text)), "/todoist")
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// newMessageID returns a sortable unique message id.
func newMessageID(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}
