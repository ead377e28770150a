package expert

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Complexity is a hint for how much model to spend on a completion.
type Complexity string

const (
	ComplexityFast     Complexity = "FAST"
	ComplexityStandard Complexity = "STANDARD"
	ComplexityDeep     Complexity = "DEEP"
)

type CompletionRequest struct {
	System      string
	User        string
	Complexity  Complexity
	Temperature float64
	MaxTokens   int64
}

type Completion struct {
	Text    string
	CostUSD float64
}

// Caller is the seam to the external model-completion service. Tests swap in
// scripted implementations.
type Caller interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

type AnthropicCaller struct {
	messages AnthropicMessager
	timeout  time.Duration
}

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

const defaultCallTimeout = 120 * time.Second

func NewAnthropicCallerFromEnv() (*AnthropicCaller, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	return &AnthropicCaller{messages: newAnthropicClient(apiKey), timeout: defaultCallTimeout}, nil
}

func modelFor(c Complexity) anthropic.Model {
	if c == ComplexityFast {
		return anthropic.ModelClaude3_5Haiku20241022
	}
	return anthropic.ModelClaudeSonnet4_20250514
}

// Per-million-token prices used to report the monetary cost of a call.
func pricesFor(m anthropic.Model) (inPerMTok, outPerMTok float64) {
	if m == anthropic.ModelClaude3_5Haiku20241022 {
		return 0.80, 4.00
	}
	return 3.00, 15.00
}

func (a *AnthropicCaller) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	model := modelFor(req.Complexity)
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       model,
		MaxTokens:   maxTokens,
		System:      []anthropic.TextBlockParam{{Text: req.System}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.User))},
		Temperature: anthropic.Float(req.Temperature),
	})
	if err != nil {
		return Completion{}, err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	inPrice, outPrice := pricesFor(model)
	cost := float64(resp.Usage.InputTokens)/1e6*inPrice + float64(resp.Usage.OutputTokens)/1e6*outPrice
	return Completion{Text: sb.String(), CostUSD: cost}, nil
}

type transportFailureClass int

const (
	failureTimeout transportFailureClass = iota
	failureRateLimit
	failureServer
	failureClient
)

func classifyTransportError(err error) transportFailureClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return failureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return failureTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"):
		return failureRateLimit
	case strings.Contains(msg, "status code: 5") || strings.Contains(msg, "server error"):
		return failureServer
	case strings.Contains(msg, "status code: 4"):
		return failureClient
	default:
		return failureServer
	}
}

func retryable(class transportFailureClass) bool {
	return class == failureTimeout || class == failureRateLimit || class == failureServer
}

func backoffDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 1 * time.Second
	}
	return 2 * time.Second
}

// sleepCh is a hook so retry tests do not wait out real backoff delays.
var sleepCh = func(attempt int) <-chan time.Time {
	return time.After(backoffDelay(attempt))
}
