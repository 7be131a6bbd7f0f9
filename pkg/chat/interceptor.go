package chat

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ErrThreadNotFound is returned by a Host that does not know a thread.
var ErrThreadNotFound = errors.New("thread not found")

// Processor answers a command line. command.Dispatcher implements it.
type Processor interface {
	Process(ctx context.Context, raw string) string
}

// Thread is a conversation in the host.
type Thread struct {
	ID          string
	AssistantID string
}

// Assistant is the persona answering in a thread.
type Assistant struct {
	ID    string
	Name  string
	Model string
}

// Host is the chat application the interceptor talks back to.
type Host interface {
	Thread(ctx context.Context, id string) (*Thread, error)
	Assistants(ctx context.Context) ([]Assistant, error)
	Emit(ctx context.Context, msg Message) error
}

// Event is raised by the host before a message is sent to the model.
type Event struct {
	ThreadID  string
	Message   Message
	prevented bool
}

// PreventDefault stops the host from forwarding the message to the model.
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// Bus delivers before-send events to registered handlers.
type Bus interface {
	OnBeforeSend(handler func(ctx context.Context, e *Event))
}

// Interceptor diverts command messages to a Processor and posts the reply
// as an assistant message in the same thread.
type Interceptor struct {
	processor Processor
	host      Host
	logger    *log.Logger
	now       func() time.Time
	once      sync.Once
}

// NewInterceptor returns an Interceptor. A nil logger discards output.
func NewInterceptor(processor Processor, host Host, logger *log.Logger) *Interceptor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Interceptor{
		processor: processor,
		host:      host,
		logger:    logger,
		now:       time.Now,
	}
}

// Register subscribes the interceptor to bus. Later calls are no-ops.
func (i *Interceptor) Register(bus Bus) {
	i.once.Do(func() {
		bus.OnBeforeSend(i.OnBeforeSend)
		i.logger.Info("todoist message listener initialized")
	})
}

// OnBeforeSend handles one outgoing message.
func (i *Interceptor) OnBeforeSend(ctx context.Context, e *Event) {
	if e == nil {
		return
	}
	text := e.Message.Content.Text()
	if text == "" || !IsCommand(text) {
		return
	}

	e.PreventDefault()

	threadID := e.ThreadID
	if threadID == "" {
		threadID = e.Message.ThreadID
	}

	reply := i.processor.Process(ctx, text)
	i.sendAssistantResponse(ctx, threadID, reply)
}

func (i *Interceptor) sendAssistantResponse(ctx context.Context, threadID, content string) {
	thread, err := i.host.Thread(ctx, threadID)
	if err != nil || thread == nil || thread.ID == "" {
		i.logger.Error("thread not found", "thread", threadID, "err", err)
		return
	}

	assistant, err := i.findAssistant(ctx, thread.AssistantID)
	if err != nil || assistant == nil {
		i.logger.Error("assistant not found", "thread", threadID, "assistant", thread.AssistantID, "err", err)
		return
	}

	now := i.now()
	msg := Message{
		ID:          newMessageID(now),
		ThreadID:    threadID,
		Role:        RoleAssistant,
		Content:     Text(content),
		AssistantID: assistant.ID,
		Model:       assistant.Model,
		CreatedAt:   now,
	}
	if err := i.host.Emit(ctx, msg); err != nil {
		i.logger.Error("failed to send assistant response", "thread", threadID, "err", err)
	}
}

func (i *Interceptor) findAssistant(ctx context.Context, id string) (*Assistant, error) {
	assistants, err := i.host.Assistants(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range assistants {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

// Request is a model inference request as seen by a host tool hook.
type Request struct {
	ThreadID string
	Model    string
	Messages []Message
}

// Tool rewrites the latest message of a model request with the command
// reply, for hosts that route messages through tools instead of events.
type Tool struct {
	processor Processor
}

// NewTool returns a Tool answering with processor.
func NewTool(processor Processor) *Tool {
	return &Tool{processor: processor}
}

// Name is the tool name registered with the host.
func (t *Tool) Name() string { return "todoist" }

// Process replaces the content of the last message with the command reply
// when that message is a command. Other requests are returned unchanged.
func (t *Tool) Process(ctx context.Context, req *Request) *Request {
	if req == nil || req.Model == "" || len(req.Messages) == 0 {
		return req
	}
	last := &req.Messages[len(req.Messages)-1]
	text := last.Content.Text()
	if text == "" || !IsCommand(text) {
		return req
	}
	last.Content = Text(t.processor.Process(ctx, text))
	return req
}
