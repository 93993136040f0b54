package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ---------------------------------------------------------------------------
// Rate limit state (global pause for parallel runs)
// ---------------------------------------------------------------------------

type rateLimitState struct {
	mu       sync.Mutex
	paused   int32 // atomic: 1 = paused
	pauseEnd time.Time
}

func (r *rateLimitState) isPaused() bool {
	return atomic.LoadInt32(&r.paused) == 1
}

func (r *rateLimitState) pause(duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pauseEnd = time.Now().Add(duration)
	atomic.StoreInt32(&r.paused, 1)
}

func (r *rateLimitState) unpause() {
	atomic.StoreInt32(&r.paused, 0)
}

// waitIfPaused blocks until the rate limit pause is over.
func (r *rateLimitState) waitIfPaused(ctx context.Context) error {
	for r.isPaused() {
		r.mu.Lock()
		remaining := time.Until(r.pauseEnd)
		r.mu.Unlock()
		if remaining <= 0 {
			r.unpause()
			return nil
		}
		if remaining > 100*time.Millisecond {
			remaining = 100 * time.Millisecond
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(remaining):
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// HTTP client with proxy support
// ---------------------------------------------------------------------------

func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// ---------------------------------------------------------------------------
// API formats
// ---------------------------------------------------------------------------

type apiFormat int

const (
	formatOpenAIChat   apiFormat = iota // OpenAI chat/completions
	formatGeminiNative                  // Google Gemini generateContent
)

func buildOpenAIChatRequest(model, systemPrompt, userPrompt string, temperature float64) ([]byte, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	req := struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature"`
		Stream      bool    `json:"stream"`
	}{
		Model: model,
		Messages: []msg{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		Stream:      false,
	}
	return json.Marshal(req)
}

func buildGeminiRequest(systemPrompt, userPrompt string, temperature float64) ([]byte, error) {
	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Role  string `json:"role,omitempty"`
		Parts []part `json:"parts"`
	}
	type genConfig struct {
		Temperature float64 `json:"temperature"`
	}
	req := struct {
		Contents          []content `json:"contents"`
		GenerationConfig  genConfig `json:"generationConfig"`
		SystemInstruction *content  `json:"systemInstruction,omitempty"`
	}{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: userPrompt}}},
		},
		GenerationConfig: genConfig{Temperature: temperature},
	}
	if systemPrompt != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: systemPrompt}}}
	}
	return json.Marshal(req)
}

// ---------------------------------------------------------------------------
// Response parsing
// ---------------------------------------------------------------------------

// extractResponseText tries all known response formats and returns the text.
func extractResponseText(body []byte) (string, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("invalid JSON response: %w", err)
	}

	// Check for API error
	if errObj, ok := raw["error"]; ok {
		if errMap, ok := errObj.(map[string]any); ok {
			if msg, ok := errMap["message"].(string); ok {
				return "", fmt.Errorf("API error: %s", msg)
			}
		}
		return "", fmt.Errorf("API error: %v", errObj)
	}

	// 1. OpenAI chat format: choices[0].message.content
	if choices, ok := raw["choices"].([]any); ok && len(choices) > 0 {
		if choice, ok := choices[0].(map[string]any); ok {
			if message, ok := choice["message"].(map[string]any); ok {
				if content, ok := message["content"].(string); ok {
					return content, nil
				}
			}
		}
	}

	// 2. Gemini format: candidates[0].content.parts[0].text
	if candidates, ok := raw["candidates"].([]any); ok && len(candidates) > 0 {
		if candidate, ok := candidates[0].(map[string]any); ok {
			if content, ok := candidate["content"].(map[string]any); ok {
				if parts, ok := content["parts"].([]any); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]any); ok {
						if text, ok := part["text"].(string); ok {
							return text, nil
						}
					}
				}
			}
		}
	}

	// 3. Simple response field
	if resp, ok := raw["response"].(string); ok {
		return resp, nil
	}

	return "", fmt.Errorf("could not extract text from response: %s", truncate(string(body), 500))
}

// parseRetryDelay extracts the retry delay from a 429 response body.
// Looks for Google's RetryInfo detail with retryDelay field.
// Returns the delay to wait, defaulting to 60s + 5s buffer.
func parseRetryDelay(body []byte) time.Duration {
	const defaultDelay = 65 * time.Second

	var errResp struct {
		Error struct {
			Details []struct {
				Type       string `json:"@type"`
				RetryDelay string `json:"retryDelay"`
			} `json:"details"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil {
		return defaultDelay
	}

	for _, detail := range errResp.Error.Details {
		if strings.Contains(detail.Type, "RetryInfo") && detail.RetryDelay != "" {
			d := strings.TrimSuffix(detail.RetryDelay, "s")
			if secs, err := strconv.ParseFloat(d, 64); err == nil {
				return time.Duration(secs*1000)*time.Millisecond + 5*time.Second
			}
		}
	}

	return defaultDelay
}

// ---------------------------------------------------------------------------
// Provider dispatch
// ---------------------------------------------------------------------------

// callProvider sends a prompt to the configured provider and returns
// the response text.
func callProvider(ctx context.Context, prov Provider, systemPrompt, userPrompt string, rl *rateLimitState, maxRetries int, verbose bool) (string, error) {
	switch prov.ID {
	case ProviderGoogle:
		return callHTTPProvider(ctx, prov, systemPrompt, userPrompt, formatGeminiNative, rl, maxRetries, verbose)
	default:
		// openai, ollama, custom-openai, and anything OpenAI-compatible.
		return callHTTPProvider(ctx, prov, systemPrompt, userPrompt, formatOpenAIChat, rl, maxRetries, verbose)
	}
}

func callHTTPProvider(ctx context.Context, prov Provider, systemPrompt, userPrompt string, format apiFormat, rl *rateLimitState, maxRetries int, verbose bool) (string, error) {
	endpoint, headers, body, err := buildHTTPRequest(prov, systemPrompt, userPrompt, format)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	client := makeHTTPClient(prov.Proxy, prov.Timeout)

	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Wait if globally paused (rate limit from another run)
		if rl != nil {
			if err := rl.waitIfPaused(ctx); err != nil {
				return "", err
			}
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("creating request: %w", err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		if verbose {
			log.Printf("[DEBUG] %s attempt %d: POST %s", prov.Name, attempt+1, endpoint)
		}

		resp, err := client.Do(req)
		if err != nil {
			if attempt < maxRetries {
				wait := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(wait):
				}
				continue
			}
			return "", fmt.Errorf("API request failed: %w", err)
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			retryDelay := parseRetryDelay(respBody)
			if verbose {
				log.Printf("[WARN] 429 rate limited, waiting %v before retry (attempt %d/%d)", retryDelay, attempt+1, maxRetries)
			}
			// Globally pause all runs sharing this engine
			if rl != nil {
				rl.pause(retryDelay)
			}
			if attempt < maxRetries {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(retryDelay):
				}
				if rl != nil {
					rl.unpause()
				}
				continue
			}
			return "", fmt.Errorf("rate limited after %d retries: %s", maxRetries, truncate(string(respBody), 300))
		}

		if resp.StatusCode != http.StatusOK {
			if attempt < maxRetries && resp.StatusCode >= 500 {
				wait := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(wait):
				}
				continue
			}
			return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(respBody), 500))
		}

		text, err := extractResponseText(respBody)
		if err != nil {
			return "", err
		}
		return text, nil
	}

	return "", fmt.Errorf("exhausted all %d retries", maxRetries)
}

// buildHTTPRequest constructs the endpoint, headers, and body for an HTTP provider.
func buildHTTPRequest(prov Provider, systemPrompt, userPrompt string, format apiFormat) (string, map[string]string, []byte, error) {
	headers := map[string]string{
		"Content-Type": "application/json",
	}

	var endpoint string
	var body []byte
	var err error

	switch format {
	case formatGeminiNative:
		// Google AI: POST /v1beta/models/{model}:generateContent
		endpoint = fmt.Sprintf("%s/v1beta/models/%s:generateContent",
			strings.TrimRight(prov.BaseURL, "/"), prov.Model)
		if prov.APIKey != "" {
			headers["x-goog-api-key"] = prov.APIKey
		}
		body, err = buildGeminiRequest(systemPrompt, userPrompt, 0.3)

	default: // formatOpenAIChat
		baseURL := strings.TrimRight(prov.BaseURL, "/")
		if !strings.HasSuffix(baseURL, "/chat/completions") {
			endpoint = baseURL + "/chat/completions"
		} else {
			endpoint = baseURL
		}
		if prov.APIKey != "" {
			headers["Authorization"] = "Bearer " + prov.APIKey
		}
		body, err = buildOpenAIChatRequest(prov.Model, systemPrompt, userPrompt, 0.3)
	}

	if err != nil {
		return "", nil, nil, err
	}
	return endpoint, headers, body, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
