// Package anthropic implements the ports.Rewriter interface on top of the
// official Anthropic SDK. It owns prompt construction and the retry policy
// around the Messages API call; splitting the response into per-file
// outputs stays with the bundle package.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/doublegate/rustopt/internal/domain/retry"
	"github.com/doublegate/rustopt/internal/ports"
)

// ErrFatalProvider marks provider-reported errors that retrying cannot fix:
// bad credentials, invalid request, quota, malformed model name.
var ErrFatalProvider = errors.New("unretryable provider error")

const systemPrompt = "You are an assistant specializing in Rust programming."

// promptTemplate fixes the task description and the output-format contract.
// The header/footer tokens here must match the bundle package grammar.
const promptTemplate = `You are an expert Rust developer. Given the following Rust source files, perform:

1. Debugging and error detection/removal.
2. Code restructuring for compactness and efficiency.
3. Adding full, technically detailed code comments.
4. Ensuring cross-file compatibility of methods, functions, traits, etc.

Ensure the code compiles successfully using ` + "`cargo build`" + `.

Files provided:
%s

### Begin Rust Source Files ###
%s
### End Rust Source Files ###

Return each file clearly separated with headers:
## File: relative/path/to/file ##
<processed code here>
`

// Config holds initialization parameters for the rewrite client.
type Config struct {
	APIKey string
	Model  string

	// MaxRetries is the total attempt budget, including the first call.
	MaxRetries int

	// Timeout applies per attempt, not across the whole retry loop.
	Timeout time.Duration

	// MaxTokens caps the response size. Default: 64000.
	MaxTokens int64

	// BaseDelay, Jitter, and Wait tune the retry policy; zero values take
	// the policy defaults. Wait selects blocking vs cooperative delays.
	BaseDelay time.Duration
	Jitter    func() float64
	Wait      retry.WaitFunc

	// OnRetry observes every scheduled retry (for attempt logging).
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Client implements ports.Rewriter against the Anthropic Messages API.
type Client struct {
	cfg Config

	// invoke performs one API attempt. Replaced in tests; the retry and
	// classification paths are exercised without a network.
	invoke func(ctx context.Context, prompt string) (string, error)
}

// NewClient constructs a rewrite client. SDK-internal retries are disabled
// so the policy in this package governs all retrying.
func NewClient(cfg Config) *Client {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 64000
	}

	api := sdk.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)
	c := &Client{cfg: cfg}
	c.invoke = func(ctx context.Context, prompt string) (string, error) {
		resp, err := api.Messages.New(ctx, sdk.MessageNewParams{
			Model:     sdk.Model(cfg.Model),
			MaxTokens: cfg.MaxTokens,
			System: []sdk.TextBlockParam{
				{Text: systemPrompt},
			},
			Messages: []sdk.MessageParam{
				sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
			},
			Temperature: sdk.Opt(0.1),
		}, option.WithRequestTimeout(cfg.Timeout))
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		for _, block := range resp.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		return sb.String(), nil
	}
	return c
}

// Rewrite sends one logical rewrite request, retrying transient failures
// with exponential backoff. On success the raw response text is returned
// with no structural validation. Fatal provider errors surface immediately;
// exhausted budgets surface as retry.ErrExhausted wrapping the last error.
func (c *Client) Rewrite(ctx context.Context, req ports.RewriteRequest) (string, error) {
	prompt := BuildPrompt(req)
	policy := retry.Policy{
		MaxAttempts: c.cfg.MaxRetries,
		BaseDelay:   c.cfg.BaseDelay,
		Jitter:      c.cfg.Jitter,
		Wait:        c.cfg.Wait,
		OnRetry:     c.cfg.OnRetry,
		Classify:    Classify,
	}

	var out string
	err := policy.Do(ctx, func(ctx context.Context) error {
		text, err := c.invoke(ctx, prompt)
		if err != nil {
			return wrapProviderError(err)
		}
		out = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// BuildPrompt assembles the single instruction payload for one request.
func BuildPrompt(req ports.RewriteRequest) string {
	return fmt.Sprintf(promptTemplate, strings.Join(req.FileNames, ", "), req.Contents)
}

// Classify maps attempt errors to the retry policy's taxonomy. Anything
// already marked fatal stays fatal; everything else (connectivity, context
// deadline on one attempt, throttling) is worth retrying.
func Classify(err error) retry.Class {
	if errors.Is(err, ErrFatalProvider) {
		return retry.Fatal
	}
	return retry.Transient
}

// wrapProviderError tags unretryable provider responses with
// ErrFatalProvider. API errors with a retryable status (408, 429, 5xx) and
// plain transport errors pass through untagged.
func wrapProviderError(err error) error {
	var apierr *sdk.Error
	if errors.As(err, &apierr) && !retryableStatus(apierr.StatusCode) {
		return fmt.Errorf("%w: %v", ErrFatalProvider, err)
	}
	return err
}

// retryableStatus returns true for HTTP status codes worth retrying.
func retryableStatus(status int) bool {
	return status == 408 || status == 429 || status >= 500
}
