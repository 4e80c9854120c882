package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "mistralai/mistral-7b-instruct:free"

	requestTimeout = 30 * time.Second

	// Prompt assembly takes at most this many trailing history messages.
	historyWindow = 10

	// Cache keys use the role plus the first cacheKeyPrefix content bytes
	// of the last two assembled messages.
	cacheKeyPrefix = 100
	cacheCapacity  = 100
)

// Fixed user-facing replies for every failure mode. The client never
// returns an error past its boundary, only one of these strings.
const (
	msgUnavailable  = "Извините, AI сервис временно недоступен. Проверьте настройки API ключа."
	msgNoChoices    = "Извините, не удалось получить ответ от AI модели."
	msgBadAPIKey    = "Ошибка: Неверный API ключ OpenRouter. Проверьте настройки."
	msgRateLimited  = "Лимит запросов к AI превышен. Попробуйте позже."
	msgTimeout      = "Таймаут при обращении к AI сервису. Попробуйте позже."
	msgNoConnection = "Нет соединения с интернетом или AI сервисом."
)

// Keys that mean "not configured yet".
var placeholderKeys = []string{
	"your_openrouter_api_key",
	"sk-or-v1-...",
	"sk-or-v1-",
	"",
}

// Stats are usage counters, monotonically non-decreasing for the
// process lifetime.
type Stats struct {
	Requests   int
	TokensUsed int
	Errors     int
}

// ModelInfo is a snapshot of the client identity and usage.
type ModelInfo struct {
	Model     string
	Provider  string
	Available bool
	Requests  int
	Tokens    int
}

type headerTransport struct {
	rt      http.RoundTripper
	headers http.Header
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone request to avoid mutating the original
	cl := req.Clone(req.Context())
	for k, vs := range t.headers {
		for _, v := range vs {
			cl.Header.Add(k, v)
		}
	}
	return t.rt.RoundTrip(cl)
}

// Client talks to an OpenRouter-compatible chat-completions endpoint.
// Callers always get a presentable reply string back; network and API
// failures are folded into fixed messages and never escape as errors.
type Client struct {
	api         *openai.Client
	model       string
	available   bool
	maxTokens   int
	temperature float32

	mu    sync.Mutex
	cache *responseCache
	stats Stats
}

// NewClient builds a client for the given credential. A missing,
// placeholder or too-short key marks the client unavailable without
// attempting any network I/O.
func NewClient(apiKey, baseURL, model string) *Client {
	key := strings.TrimSpace(apiKey)
	available := len(key) >= 10
	for _, p := range placeholderKeys {
		if key == p {
			available = false
		}
	}
	if !available {
		log.Printf("OpenRouter API key is not configured, AI replies disabled")
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := openai.DefaultConfig(key)
	cfg.BaseURL = baseURL
	h := http.Header{}
	h.Set("HTTP-Referer", "https://voiceai-assistant.app")
	h.Set("X-Title", "VoiceAI Assistant")
	cfg.HTTPClient = &http.Client{
		Timeout:   requestTimeout,
		Transport: headerTransport{rt: http.DefaultTransport, headers: h},
	}

	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       model,
		available:   available,
		maxTokens:   500,
		temperature: 0.7,
		cache:       newResponseCache(cacheCapacity),
	}
}

// SetSampling overrides the default max_tokens/temperature pair.
func (c *Client) SetSampling(maxTokens int, temperature float32) {
	if maxTokens > 0 {
		c.maxTokens = maxTokens
	}
	if temperature > 0 {
		c.temperature = temperature
	}
}

func (c *Client) IsAvailable() bool { return c.available }

func (c *Client) Model() string { return c.model }

// GenerateResponse produces a continuation for userMessage given the
// trailing conversation history and session context.
func (c *Client) GenerateResponse(ctx context.Context, userMessage string, history []ConversationMessage, pctx PromptContext) (string, Metadata) {
	if !c.available {
		return msgUnavailable, Metadata{}
	}

	// Counts attempts, not successes.
	c.mu.Lock()
	c.stats.Requests++
	c.mu.Unlock()

	messages := c.prepareMessages(userMessage, history, pctx)

	key := cacheKey(messages)
	c.mu.Lock()
	if cached, ok := c.cache.get(key); ok {
		c.mu.Unlock()
		log.Printf("using cached AI response")
		return cached, Metadata{Cached: true}
	}
	c.mu.Unlock()

	req := openai.ChatCompletionRequest{
		Model:            c.model,
		Messages:         toChatMessages(messages),
		MaxTokens:        c.maxTokens,
		Temperature:      c.temperature,
		TopP:             0.9,
		FrequencyPenalty: 0.1,
		PresencePenalty:  0.1,
		Stream:           false,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return c.classifyError(err)
	}

	if len(resp.Choices) == 0 {
		log.Printf("no choices in AI response")
		return msgNoChoices, Metadata{}
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	c.mu.Lock()
	c.stats.TokensUsed += resp.Usage.TotalTokens
	c.cache.add(key, content)
	c.mu.Unlock()

	model := resp.Model
	if model == "" {
		model = c.model
	}
	return content, Metadata{
		Model: model,
		Tokens: TokenUsage{
			Prompt:     resp.Usage.PromptTokens,
			Completion: resp.Usage.CompletionTokens,
			Total:      resp.Usage.TotalTokens,
		},
		Cached:       false,
		FinishReason: string(resp.Choices[0].FinishReason),
	}
}

// classifyError maps transport and API failures to fixed replies.
// 401 and 429 are user-actionable and deliberately do not bump the
// error counter; everything else does.
func (c *Client) classifyError(err error) (string, Metadata) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return c.classifyStatus(apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return c.classifyStatus(reqErr.HTTPStatusCode, err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		log.Printf("AI request timed out: %v", err)
		c.countError()
		return msgTimeout, Metadata{}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		log.Printf("AI connection failed: %v", err)
		c.countError()
		return msgNoConnection, Metadata{}
	}

	log.Printf("AI client error: %v", err)
	c.countError()
	return fmt.Sprintf("Внутренняя ошибка: %v", err), Metadata{}
}

func (c *Client) classifyStatus(code int, err error) (string, Metadata) {
	switch code {
	case http.StatusUnauthorized:
		log.Printf("invalid OpenRouter API key")
		return msgBadAPIKey, Metadata{}
	case http.StatusTooManyRequests:
		log.Printf("AI request rate limited")
		return msgRateLimited, Metadata{}
	default:
		log.Printf("AI API error: status %d: %v", code, err)
		c.countError()
		return fmt.Sprintf("Ошибка сервиса AI (код: %d)", code), Metadata{}
	}
}

func (c *Client) countError() {
	c.mu.Lock()
	c.stats.Errors++
	c.mu.Unlock()
}

// prepareMessages assembles system prompt + trailing history + the
// current user message, in that order.
func (c *Client) prepareMessages(userMessage string, history []ConversationMessage, pctx PromptContext) []Message {
	messages := []Message{{Role: "system", Content: systemPrompt(pctx)}}

	tail := history
	if len(tail) > historyWindow {
		tail = tail[len(tail)-historyWindow:]
	}
	for _, m := range tail {
		messages = append(messages, Message{Role: m.Role, Content: m.Content})
	}

	return append(messages, Message{Role: "user", Content: userMessage})
}

func systemPrompt(pctx PromptContext) string {
	var b strings.Builder
	b.WriteString(`Ты - полезный голосовой ассистент по имени Алекса.
Ты помогаешь пользователю с различными задачами: отвечаешь на вопросы,
даешь советы, помогаешь с работой и развлекаешь.

Твои характеристики:
- Имя: Алекса
- Пол: женский
- Характер: дружелюбный, терпеливый, заботливый
- Стиль общения: естественный, разговорный, но профессиональный
- Знания: широкие, от технологий до искусства

Инструкции:
1. Отвечай на русском языке, используй естественную разговорную речь
2. Будь краткой, но информативной
3. Если не знаешь ответа, честно признайся
4. Поддерживай диалог, задавай уточняющие вопросы
5. Не выдумывай факты, если не уверена

Текущий контекст:
`)
	if pctx.Time != "" {
		fmt.Fprintf(&b, "Время: %s\n", pctx.Time)
	}
	if pctx.Location != "" {
		fmt.Fprintf(&b, "Местоположение: %s\n", pctx.Location)
	}
	if pctx.UserName != "" {
		fmt.Fprintf(&b, "Имя пользователя: %s\n", pctx.UserName)
	}
	b.WriteString("\nТеперь помоги пользователю!")
	return b.String()
}

// cacheKey derives a memoization key from the last two assembled
// messages: role plus a truncated content prefix, joined by "|".
func cacheKey(messages []Message) string {
	tail := messages
	if len(tail) > 2 {
		tail = tail[len(tail)-2:]
	}
	parts := make([]string, 0, len(tail))
	for _, m := range tail {
		content := m.Content
		if len(content) > cacheKeyPrefix {
			content = content[:cacheKeyPrefix]
		}
		parts = append(parts, m.Role+":"+content)
	}
	return strings.Join(parts, "|")
}

func toChatMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

// Stats returns a snapshot of the usage counters.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Client) GetModelInfo() ModelInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ModelInfo{
		Model:     c.model,
		Provider:  "OpenRouter",
		Available: c.available,
		Requests:  c.stats.Requests,
		Tokens:    c.stats.TokensUsed,
	}
}
