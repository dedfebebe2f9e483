package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"sales-practice-api/internal/domain"
	"sales-practice-api/internal/domain/ports/adapter"
	"sales-practice-api/internal/infra/metrics"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.CompletionAdapter = (*LMStudioAdapter)(nil)

// LMStudioAdapter implements adapter.CompletionAdapter against an
// OpenAI-compatible chat-completions endpoint. The default target is a local
// LM Studio server (http://localhost:1234/v1), but any service exposing
// /chat/completions works; no API key is required for the local case.
//
// Every failure is translated here, once, into *domain.GatewayError:
// connection refused -> ServiceUnavailable, non-2xx -> Upstream,
// anything else -> Transport. One attempt per call, no retries.
type LMStudioAdapter struct {
	base    string // e.g. http://localhost:1234/v1
	model   string
	client  *http.Client
	encoder *tiktoken.Tiktoken // best-effort prompt token estimation
}

func NewLMStudioAdapter(base, model string, timeout time.Duration) (*LMStudioAdapter, error) {
	if base == "" {
		return nil, errors.New("completion endpoint empty")
	}
	if model == "" {
		return nil, errors.New("model name empty")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Local models are not in tiktoken's model table; cl100k_base is a
	// reasonable estimator for metrics purposes.
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, _ = tiktoken.GetEncoding("cl100k_base")
	}

	return &LMStudioAdapter{
		base:    strings.TrimRight(base, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
		encoder: enc,
	}, nil
}

func (a *LMStudioAdapter) ModelName() string { return a.model }

func (a *LMStudioAdapter) Complete(ctx context.Context, messages []adapter.Message, opts adapter.Options) (string, error) {
	reqBody := struct {
		Model       string            `json:"model"`
		Messages    []adapter.Message `json:"messages"`
		Temperature float64           `json:"temperature"`
		MaxTokens   int               `json:"max_tokens"`
		Stream      bool              `json:"stream"`
	}{
		Model:       a.model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Stream:      false,
	}

	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", domain.NewGatewayError(domain.GatewayTransport, 0, err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := a.client.Do(req)
	latency := int(time.Since(start).Milliseconds())
	if err != nil {
		gerr := a.mapTransportError(err)
		metrics.ObserveCompletion(a.model, a.countTokens(messages), latency, false)
		metrics.CompletionFailed(a.model, string(gerr.Kind))
		return "", gerr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := readUpstreamError(resp.Body)
		metrics.ObserveCompletion(a.model, a.countTokens(messages), latency, false)
		metrics.CompletionFailed(a.model, string(domain.GatewayUpstream))
		return "", domain.NewGatewayError(domain.GatewayUpstream, resp.StatusCode, msg, nil)
	}

	var payload struct {
		Choices []struct {
			Message adapter.Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.CompletionFailed(a.model, string(domain.GatewayTransport))
		return "", domain.NewGatewayError(domain.GatewayTransport, 0, "decode response: "+err.Error(), err)
	}
	for _, c := range payload.Choices {
		if c.Message.Content != "" {
			metrics.ObserveCompletion(a.model, a.countTokens(messages), latency, true)
			return c.Message.Content, nil
		}
	}
	metrics.CompletionFailed(a.model, string(domain.GatewayTransport))
	return "", domain.NewGatewayError(domain.GatewayTransport, 0, "no choice content in response", nil)
}

// mapTransportError distinguishes "the server is not running" from every
// other network failure, since that is the common case when practicing
// against a local model server.
func (a *LMStudioAdapter) mapTransportError(err error) *domain.GatewayError {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return domain.NewGatewayError(domain.GatewayServiceUnavailable, 0,
			"connection refused at "+a.base+"; start the model server and load a model", err)
	}
	return domain.NewGatewayError(domain.GatewayTransport, 0, err.Error(), err)
}

func (a *LMStudioAdapter) countTokens(messages []adapter.Message) int {
	if a.encoder == nil {
		return 0
	}
	n := 0
	for _, m := range messages {
		n += len(a.encoder.Encode(m.Content, nil, nil))
	}
	return n
}

// readUpstreamError pulls a human-readable message out of an error body.
// OpenAI-style servers wrap it as {"error":{"message":...}} or {"error":...}.
func readUpstreamError(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	var wrapped struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(b, &wrapped); err == nil && wrapped.Error.Message != "" {
		return wrapped.Error.Message
	}
	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &flat); err == nil && flat.Error != "" {
		return flat.Error
	}
	if s := strings.TrimSpace(string(b)); s != "" {
		return s
	}
	return "upstream returned an error with no body"
}
