package claude

import (
	"context"
	"fmt"
	"strings"
	"sync"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/kbukum/modkit/lifecycle"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/observability"
)

// Role is the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single text turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is a request to the Messages API. Zero fields fall back
// to the service options.
type CompletionRequest struct {
	Messages      []Message `json:"messages" binding:"required,min=1,dive"`
	Model         string    `json:"model,omitempty"`
	MaxTokens     int64     `json:"max_tokens,omitempty"`
	System        string    `json:"system,omitempty"`
	Temperature   *float64  `json:"temperature,omitempty"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
}

// Usage reports token consumption.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// CompletionResponse is the text result of a completion.
type CompletionResponse struct {
	ID         string `json:"id"`
	Model      string `json:"model"`
	Text       string `json:"text"`
	StopReason string `json:"stop_reason"`
	Usage      Usage  `json:"usage"`
}

// messagesAPI is the part of the Anthropic client the service uses.
type messagesAPI interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Service talks to Claude and keeps per-conversation history in memory.
type Service struct {
	opts     Options
	messages messagesAPI
	log      *logger.Logger

	mu      sync.Mutex
	history map[string][]Message
}

var (
	_ lifecycle.ModuleInitHook    = (*Service)(nil)
	_ lifecycle.ModuleDestroyHook = (*Service)(nil)
	_ lifecycle.Describable       = (*Service)(nil)
	_ observability.HealthChecker = (*Service)(nil)
)

// NewService creates a Service backed by the Anthropic SDK client.
func NewService(opts Options) (*Service, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(opts.MaxRetries),
		option.WithRequestTimeout(opts.Timeout),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := anthropic.NewClient(clientOpts...)
	return newService(opts, &client.Messages), nil
}

func newService(opts Options, messages messagesAPI) *Service {
	return &Service{
		opts:     opts,
		messages: messages,
		log:      logger.WithComponent("claude"),
		history:  make(map[string][]Message),
	}
}

// Complete sends a completion request.
func (s *Service) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("claude: completion needs at least one message")
	}

	params := anthropic.MessageNewParams{
		Model:         anthropic.Model(firstNonEmpty(req.Model, s.opts.Model)),
		MaxTokens:     s.opts.MaxTokens,
		Messages:      toParams(req.Messages),
		StopSequences: req.StopSequences,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = req.MaxTokens
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if t := firstNonNil(req.Temperature, s.opts.Temperature); t != nil {
		params.Temperature = anthropic.Float(*t)
	}

	msg, err := s.messages.New(ctx, params)
	if err != nil {
		s.log.Warn("completion failed", logger.MergeWithError(logger.Fields("model", string(params.Model)), err))
		return nil, fmt.Errorf("claude: create message: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return &CompletionResponse{
		ID:         msg.ID,
		Model:      string(msg.Model),
		Text:       text.String(),
		StopReason: string(msg.StopReason),
		Usage: Usage{
			InputTokens:  msg.Usage.InputTokens,
			OutputTokens: msg.Usage.OutputTokens,
		},
	}, nil
}

// Chat sends a single user message and returns the reply text.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	resp, err := s.Complete(ctx, CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: message}},
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Conversation sends message as the next turn of conversation id and
// records both turns. History beyond the configured limit is dropped oldest first.
func (s *Service) Conversation(ctx context.Context, id, message string) (string, error) {
	s.mu.Lock()
	turns := append(append([]Message(nil), s.history[id]...), Message{Role: RoleUser, Content: message})
	s.mu.Unlock()

	resp, err := s.Complete(ctx, CompletionRequest{Messages: turns})
	if err != nil {
		return "", err
	}

	turns = append(turns, Message{Role: RoleAssistant, Content: resp.Text})
	if limit := s.opts.HistoryLimit; limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	s.mu.Lock()
	s.history[id] = turns
	s.mu.Unlock()
	return resp.Text, nil
}

// History returns a copy of the recorded turns of conversation id.
func (s *Service) History(id string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.history[id]...)
}

// ClearConversation forgets conversation id.
func (s *Service) ClearConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, id)
}

// EstimateTokens approximates the token count of text at four characters per token.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// OnModuleInit warns when no API key is configured.
func (s *Service) OnModuleInit(ctx context.Context) error {
	if s.opts.APIKey == "" {
		s.log.Warn("no API key configured, requests will be rejected upstream")
	}
	return nil
}

// OnModuleDestroy drops every conversation.
func (s *Service) OnModuleDestroy(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = make(map[string][]Message)
	return nil
}

// Describe reports the client for the startup summary.
func (s *Service) Describe() lifecycle.Description {
	return lifecycle.Description{
		Name:    "Claude",
		Type:    "client",
		Details: "model=" + s.opts.Model,
	}
}

// CheckHealth reports degraded without an API key.
func (s *Service) CheckHealth(ctx context.Context) observability.Health {
	if s.opts.APIKey == "" {
		return observability.Health{Name: "claude", Status: observability.HealthStatusDegraded, Message: "no API key"}
	}
	return observability.Health{Name: "claude", Status: observability.HealthStatusUp}
}

func toParams(messages []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(block))
		} else {
			out = append(out, anthropic.NewUserMessage(block))
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonNil(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
