package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

var errEmptyCompletion = errors.New("empty completion")

// retryPolicy bounds text generation calls.
type retryPolicy struct {
	attempts int
	backoff  time.Duration
	timeout  time.Duration
}

func retryPolicyFrom(cfg domain.ResponderSettings) retryPolicy {
	p := retryPolicy{attempts: cfg.MaxRetries, backoff: cfg.Backoff, timeout: cfg.Timeout}
	if p.attempts < 1 {
		p.attempts = 1
	}
	if p.timeout <= 0 {
		p.timeout = 30 * time.Second
	}
	return p
}

// generate calls the LLM until accept takes the completion or attempts run
// out. Each call gets its own timeout and attempts are spaced by exponential
// backoff. Empty completions and accept errors count as failed attempts.
// Exhaustion yields a GenerationError; cancellation of ctx is returned as is.
func generate[T any](
	ctx context.Context,
	llm driven.LLMService,
	policy retryPolicy,
	prompt string,
	opts driven.GenerateOptions,
	accept func(string) (T, error),
) (T, error) {
	var zero T
	if llm == nil {
		return zero, domain.ErrLLMUnavailable
	}

	attempts := 0
	operation := func() (T, error) {
		attempts++
		callCtx, cancel := context.WithTimeout(ctx, policy.timeout)
		defer cancel()

		text, err := llm.Generate(callCtx, prompt, opts)
		if err != nil {
			if ctx.Err() != nil {
				return zero, backoff.Permanent(ctx.Err())
			}
			return zero, err
		}
		if strings.TrimSpace(text) == "" {
			return zero, errEmptyCompletion
		}
		return accept(text)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.backoff
	b.Multiplier = 2
	b.RandomizationFactor = 0

	result, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(policy.attempts)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			logger.Debug("Generation attempt %d failed: %v (retrying in %s)", attempts, err, wait)
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, &domain.GenerationError{Attempts: attempts, Err: err}
	}
	return result, nil
}

// acceptText returns the trimmed completion.
func acceptText(text string) (string, error) {
	return strings.TrimSpace(text), nil
}

// renderPrompt loads a named template and executes it with data.
func renderPrompt(prompts driven.PromptStore, name string, data any) (string, error) {
	raw, err := prompts.Load(name)
	if err != nil {
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse prompt %q: %w", name, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// languageDirective renders the instruction appended to non-English prompts.
func languageDirective(prompts driven.PromptStore, lang domain.Language) (string, error) {
	if lang.IsEnglish() {
		return "", nil
	}
	return renderPrompt(prompts, driven.PromptLanguageDirective, struct{ Language string }{lang.Name})
}

// resolveLanguage looks up a language, falling back to the configured default.
func resolveLanguage(value, fallback string) (domain.Language, error) {
	if strings.TrimSpace(value) == "" {
		value = fallback
	}
	lang, ok := domain.LookupLanguage(value)
	if !ok {
		return domain.Language{}, domain.NewValidationError("language", "unsupported language %q", value)
	}
	return lang, nil
}

// truncateRunes cuts s to at most n characters.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
