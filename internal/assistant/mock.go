package assistant

import (
	"context"
	"encoding/json"

	"portfolio-chat/internal/domain"
)

// MockClient permite tests sin llamar al asistente real.
type MockClient struct {
	Response    json.RawMessage
	Err         error
	Calls       int
	LastRequest domain.ChatRequest
}

func (m *MockClient) Forward(_ context.Context, req domain.ChatRequest) (json.RawMessage, error) {
	m.Calls++
	m.LastRequest = req
	return m.Response, m.Err
}
