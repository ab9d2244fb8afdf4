package mailer

import (
	"context"
	"sync"
)

// Mock records sent mail; Err is returned from every Send.
type Mock struct {
	mu   sync.Mutex
	sent []Email
	Err  error
}

func (m *Mock) Send(_ context.Context, e Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
	return m.Err
}

func (m *Mock) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Email, len(m.sent))
	copy(out, m.sent)
	return out
}
