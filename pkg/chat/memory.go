package chat

import (
	"context"
	"sync"
)

// MemoryHost is an in-process Host and Bus. The chat command of the CLI
// runs on it.
type MemoryHost struct {
	mu         sync.RWMutex
	threads    map[string]Thread
	assistants []Assistant
	emitted    []Message
	beforeSend []func(ctx context.Context, e *Event)
	received   []func(msg Message)
}

func NewMemoryHost() *MemoryHost {
	return &MemoryHost{threads: make(map[string]Thread)}
}

func (h *MemoryHost) AddThread(t Thread) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.threads[t.ID] = t
}

func (h *MemoryHost) AddAssistant(a Assistant) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.assistants = append(h.assistants, a)
}

// OnBeforeSend implements Bus.
func (h *MemoryHost) OnBeforeSend(handler func(ctx context.Context, e *Event)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.beforeSend = append(h.beforeSend, handler)
}

// OnReceived registers a callback for every emitted message.
func (h *MemoryHost) OnReceived(handler func(msg Message)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, handler)
}

// Send raises a before-send event for a user message and reports whether
// the message should go on to the model.
func (h *MemoryHost) Send(ctx context.Context, threadID string, content Content) bool {
	e := &Event{
		ThreadID: threadID,
		Message:  Message{ThreadID: threadID, Role: RoleUser, Content: content},
	}

	h.mu.RLock()
	handlers := append([]func(context.Context, *Event){}, h.beforeSend...)
	h.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, e)
	}
	return !e.DefaultPrevented()
}

// Thread implements Host.
func (h *MemoryHost) Thread(ctx context.Context, id string) (*Thread, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	t, ok := h.threads[id]
	if !ok {
		return nil, ErrThreadNotFound
	}
	return &t, nil
}

// Assistants implements Host.
func (h *MemoryHost) Assistants(ctx context.Context) ([]Assistant, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Assistant(nil), h.assistants...), nil
}

// Emit implements Host.
func (h *MemoryHost) Emit(ctx context.Context, msg Message) error {
	h.mu.Lock()
	h.emitted = append(h.emitted, msg)
	handlers := append([]func(Message){}, h.received...)
	h.mu.Unlock()

	for _, handler := range handlers {
		handler(msg)
	}
	return nil
}

// Emitted returns the messages emitted so far.
func (h *MemoryHost) Emitted() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Message(nil), h.emitted...)
}
