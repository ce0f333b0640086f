package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"portfolio-chat/internal/domain"
)

const DefaultURL = "http://localhost:8080/api/chat"

// Failure describe por qué falló una pregunta al proxy.
type Failure struct {
	Reason domain.FailureReason
	Err    error
}

// Result es la variante éxito/fallo de una llamada al proxy.
type Result struct {
	Answer  string
	Failure *Failure
}

func (r Result) OK() bool {
	return r.Failure == nil
}

func failed(reason domain.FailureReason, err error) Result {
	return Result{Failure: &Failure{Reason: reason, Err: err}}
}

// Asker es lo que el widget necesita del proxy.
type Asker interface {
	Ask(ctx context.Context, req domain.ChatRequest) Result
}

// Client habla con el endpoint POST /api/chat del proxy.
type Client struct {
	url    string
	client *http.Client
}

func New(url string, httpClient *http.Client) *Client {
	if strings.TrimSpace(url) == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{url: url, client: httpClient}
}

func (c *Client) Ask(ctx context.Context, in domain.ChatRequest) Result {
	bodyBytes, err := json.Marshal(in)
	if err != nil {
		return failed(domain.ReasonUnknown, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return failed(domain.ReasonUnknown, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return failed(domain.ReasonUnknown, fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	var out domain.ChatResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return failed(domain.ReasonValidation, fmt.Errorf("chat api rejected request: %s", out.Error))
	case resp.StatusCode == http.StatusServiceUnavailable:
		return failed(domain.ReasonUpstreamUnavailable, fmt.Errorf("chat api unavailable: %s", out.Error))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return failed(domain.ReasonUnknown, fmt.Errorf("chat api request failed: status=%d", resp.StatusCode))
	case decodeErr != nil:
		return failed(domain.ReasonUnknown, fmt.Errorf("decode response: %w", decodeErr))
	}

	return Result{Answer: out.Answer}
}
