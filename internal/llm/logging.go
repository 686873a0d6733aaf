package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/quizline/internal/store"
)

type purposeKey struct{}

// WithPurpose labels requests made with ctx, e.g. "quiz-author".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok {
		return p
	}
	return "unknown"
}

type loggingProvider struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	log      zerolog.Logger
}

// WithLogging records every request in the event store and the log. A nil
// repo only logs. Failures to record never fail the request.
func WithLogging(p Provider, provider string, repo store.EventRepo, log zerolog.Logger) Provider {
	return &loggingProvider{inner: p, provider: provider, repo: repo, log: log}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	ev := store.LLMRequestEventData{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
	}

	entry := l.log.Info()
	if err != nil {
		ev.ErrorMessage = err.Error()
		entry = l.log.Warn().Err(err)
	}
	entry.Str("provider", ev.Provider).
		Str("model", ev.Model).
		Str("purpose", ev.Purpose).
		Int("input_tokens", ev.InputTokens).
		Int("output_tokens", ev.OutputTokens).
		Dur("latency", latency).
		Msg("model request")

	if l.repo != nil {
		if recErr := l.repo.AppendLLMRequest(ctx, ev); recErr != nil {
			l.log.Warn().Err(recErr).Msg("record model request")
		}
	}
	return resp, err
}

func (l *loggingProvider) ModelID() string { return l.inner.ModelID() }
