package email

import (
	"context"
	"fmt"
	"sync"

	"github.com/goal-tracker/backend/internal/application/adapter"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// MemorySender keeps emails instead of delivering them. It backs the worker
// when no Resend API key is configured.
type MemorySender struct {
	mu        sync.Mutex
	sent      []adapter.SendEmailInput
	failErr   error
	permanent bool
}

// NewMemorySender creates an empty MemorySender.
func NewMemorySender() *MemorySender {
	return &MemorySender{}
}

// Send records the email, or fails when a failure is configured.
func (m *MemorySender) Send(_ context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		code := domainerror.ErrCodeTemporaryEmailFailure
		if m.permanent {
			code = domainerror.ErrCodePermanentEmailFailure
		}
		return nil, domainerror.NewEmailError(code, "email not accepted", m.failErr)
	}

	m.sent = append(m.sent, input)
	return &adapter.SendEmailResult{
		ProviderID: fmt.Sprintf("memory-%d", len(m.sent)),
	}, nil
}

// SetFailure makes every following Send fail with err. A nil err clears it.
func (m *MemorySender) SetFailure(err error, permanent bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
	m.permanent = permanent
}

// Sent returns a copy of the recorded emails.
func (m *MemorySender) Sent() []adapter.SendEmailInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]adapter.SendEmailInput(nil), m.sent...)
}

var _ adapter.EmailSender = (*MemorySender)(nil)
