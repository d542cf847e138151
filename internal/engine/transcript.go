package engine

import (
	"sync"

	"github.com/xaenox/coach-bot/internal/models"
)

// Transcript is the write-only sink for messages. The engine never reads it
// back.
type Transcript interface {
	Append(msg models.Message)
}

type MemoryTranscript struct {
	mu       sync.RWMutex
	messages []models.Message
}

func NewMemoryTranscript() *MemoryTranscript {
	return &MemoryTranscript{}
}

func (t *MemoryTranscript) Append(msg models.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
}

// Messages returns a copy of everything appended so far.
func (t *MemoryTranscript) Messages() []models.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// MultiTranscript appends to every sink in order.
type MultiTranscript []Transcript

func (m MultiTranscript) Append(msg models.Message) {
	for _, t := range m {
		t.Append(msg)
	}
}
