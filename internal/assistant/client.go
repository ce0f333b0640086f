package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"portfolio-chat/internal/domain"
)

const DefaultURL = "http://localhost:5001/api/chat"

// Forwarder define la interfaz para reenviar una pregunta al servicio de asistente.
type Forwarder interface {
	Forward(ctx context.Context, req domain.ChatRequest) (json.RawMessage, error)
}

// HTTPClient implementa Forwarder contra el servicio de asistente externo.
type HTTPClient struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewHTTPClient construye un cliente apuntando al endpoint de chat del asistente.
func NewHTTPClient(url string, httpClient *http.Client, logger *zap.Logger) *HTTPClient {
	if strings.TrimSpace(url) == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		url:    url,
		client: httpClient,
		logger: logger,
	}
}

// Forward hace un único intento; el cuerpo JSON del asistente se devuelve sin tocar.
func (c *HTTPClient) Forward(ctx context.Context, in domain.ChatRequest) (json.RawMessage, error) {
	bodyBytes, err := json.Marshal(in)
	if err != nil {
		return nil, domain.NewChatError(domain.ReasonUnknown, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, domain.NewChatError(domain.ReasonUnknown, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domain.NewChatError(domain.ReasonUnknown, fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewChatError(domain.ReasonUnknown, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("assistant response not ok",
			zap.Int("status", resp.StatusCode),
			zap.String("status_text", http.StatusText(resp.StatusCode)),
		)
		return nil, domain.NewChatError(domain.ReasonUpstreamUnavailable, fmt.Errorf("assistant http error: status=%d", resp.StatusCode))
	}

	if !json.Valid(respBody) {
		return nil, domain.NewChatError(domain.ReasonUnknown, errors.New("assistant returned malformed json"))
	}

	return json.RawMessage(respBody), nil
}
