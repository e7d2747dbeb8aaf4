package generation

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/outils-citoyens/outils-api/internal/llm"
	"github.com/outils-citoyens/outils-api/internal/logging"
	"github.com/outils-citoyens/outils-api/internal/prompts"
	"github.com/outils-citoyens/outils-api/internal/types"
)

// Defaults applied by New when an option is left at zero.
const (
	DefaultMaxRetries  = 3
	DefaultMaxJitter   = 500 * time.Millisecond
	DefaultTimeout     = 20 * time.Second
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 4096
	maxRawInError      = 2000
)

// Options configures a Client.
type Options struct {
	Completer   llm.Completer
	MaxRetries  int
	MaxJitter   time.Duration
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int32
	Logger      *logging.Logger

	// Sleep waits between attempts. It must return early with ctx.Err()
	// when ctx ends. Tests replace it to avoid real waits.
	Sleep func(ctx context.Context, d time.Duration) error
	// Jitter returns a random duration in [0, limit).
	Jitter func(limit time.Duration) time.Duration
}

// Client wraps a Completer with a per-call timeout, exponential backoff on
// transient errors, and a single repair call for malformed JSON. It holds no
// per-request state and is safe for concurrent use.
type Client struct {
	completer   llm.Completer
	maxRetries  int
	maxJitter   time.Duration
	timeout     time.Duration
	temperature float32
	maxTokens   int32
	log         *logging.Logger
	sleep       func(ctx context.Context, d time.Duration) error
	jitter      func(limit time.Duration) time.Duration
}

// New builds a Client. Options.Completer is required.
func New(opts Options) *Client {
	c := &Client{
		completer:   opts.Completer,
		maxRetries:  opts.MaxRetries,
		maxJitter:   opts.MaxJitter,
		timeout:     opts.Timeout,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		log:         opts.Logger,
		sleep:       opts.Sleep,
		jitter:      opts.Jitter,
	}
	if c.maxRetries <= 0 {
		c.maxRetries = DefaultMaxRetries
	}
	if c.maxJitter <= 0 {
		c.maxJitter = DefaultMaxJitter
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.temperature <= 0 {
		c.temperature = DefaultTemperature
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}
	if c.log == nil {
		c.log = logging.NewNop()
	}
	if c.sleep == nil {
		c.sleep = sleepContext
	}
	if c.jitter == nil {
		c.jitter = randomJitter
	}
	return c
}

// Generate asks the backend for a JSON object. Unparseable output triggers
// exactly one repair call; if the repaired text is still not a JSON object a
// *MalformedOutputError is returned.
func (c *Client) Generate(ctx context.Context, system, user string) (types.Candidate, error) {
	raw, err := c.complete(ctx, system, user)
	if err != nil {
		return nil, err
	}
	candidate, err := Parse(raw)
	if err == nil {
		return candidate, nil
	}

	c.log.Warn("malformed generation output, requesting repair", "error", err, "raw_length", len(raw))
	return c.repair(ctx, raw)
}

func (c *Client) repair(ctx context.Context, raw string) (types.Candidate, error) {
	repaired, err := c.complete(ctx, prompts.RepairSystem(), prompts.RepairPrompt(raw))
	if err != nil {
		return nil, err
	}
	candidate, err := Parse(repaired)
	if err != nil {
		return nil, &MalformedOutputError{Raw: truncate(repaired, maxRawInError), Cause: err}
	}
	return candidate, nil
}

// complete runs one logical call under the retry policy.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	req := llm.Request{
		System:      system,
		User:        user,
		JSON:        true,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Tier:        llm.TierStandard,
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt - 1)
			c.log.Info("retrying generation call", "attempt", attempt+1, "max_attempts", c.maxRetries, "delay", delay.String())
			if err := c.sleep(ctx, delay); err != nil {
				return "", &UnavailableError{Attempts: attempt, Cause: err}
			}
		}

		text, err := c.call(ctx, req)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", &UnavailableError{Attempts: attempt + 1, Cause: ctx.Err()}
		}

		class := llm.Classify(err)
		if !class.Retryable() {
			return "", &FatalError{Message: "generation call failed", Cause: err}
		}
		c.log.Warn("transient generation failure", "attempt", attempt+1, "class", class.String(), "error", err)
		lastErr = err
	}
	return "", &UnavailableError{Attempts: c.maxRetries, Cause: lastErr}
}

func (c *Client) call(ctx context.Context, req llm.Request) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.completer.Complete(callCtx, req)
}

// backoff is 2^n seconds plus up to maxJitter of random delay.
func (c *Client) backoff(n int) time.Duration {
	return time.Duration(1<<n)*time.Second + c.jitter(c.maxJitter)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func randomJitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	return rand.N(limit)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}
