// Package classify runs the two-stage incident classifier: a binary
// relevance gate, then structured extraction of severity and location.
package classify

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/agilemorph/firewatch/internal/config"
	"github.com/agilemorph/firewatch/internal/model"
	"github.com/agilemorph/firewatch/internal/resilience"
	"github.com/agilemorph/firewatch/pkg/anthropic"
)

const (
	// gateTextLimit bounds how much candidate text the relevance gate sees.
	gateTextLimit = 4000
	// extractTextLimit bounds the extraction prompt.
	extractTextLimit = 2000
)

// Classifier submits candidate text to Claude in two stages and applies
// the acceptance policy. All call and parse failures degrade the single
// candidate to "not verified"; nothing here ever aborts a run.
type Classifier struct {
	ai         anthropic.Client
	modelID    string
	minScore   int
	minTextLen int
	retry      resilience.RetryConfig
}

// New creates a Classifier.
func New(ai anthropic.Client, aiCfg config.AnthropicConfig, cfg config.ClassifyConfig) *Classifier {
	minScore := cfg.MinScore
	if minScore <= 0 {
		minScore = 5
	}
	minTextLen := cfg.MinTextLen
	if minTextLen <= 0 {
		minTextLen = 20
	}
	return &Classifier{
		ai:         ai,
		modelID:    aiCfg.Model,
		minScore:   minScore,
		minTextLen: minTextLen,
		retry: resilience.RetryConfig{
			MaxAttempts: 3,
			OnRetry:     resilience.RetryLogger("anthropic", "create_message"),
		},
	}
}

// TooShort reports whether a candidate's text is below the minimum length
// and should be skipped before any classification call is spent on it.
func (c *Classifier) TooShort(text string) bool {
	return len(strings.TrimSpace(text)) < c.minTextLen
}

// Classify runs the full two-stage evaluation of one candidate. It returns
// the incident to persist and true when the candidate passes both the
// relevance gate and the score threshold; otherwise (nil, false).
func (c *Classifier) Classify(ctx context.Context, cand model.Candidate) (*model.Incident, bool) {
	verdict := c.Relevant(ctx, cand.Text, cand.URL)
	if !isAffirmative(verdict) {
		return nil, false
	}

	analysis := c.Extract(ctx, cand.Text)
	if analysis.Score < c.minScore {
		zap.L().Debug("classify: verified but below score threshold",
			zap.String("tweet_id", cand.ID),
			zap.Int("score", analysis.Score),
			zap.Int("min_score", c.minScore),
		)
		return nil, false
	}

	inc := model.NewIncident(cand, verdict, analysis.Score, analysis.State, analysis.County)
	return &inc, true
}

// Relevant runs the stage-1 relevance gate and returns the raw verdict
// string. Any call failure or malformed response yields "no": an
// unclassifiable candidate is never persisted as verified.
func (c *Classifier) Relevant(ctx context.Context, text, url string) string {
	prompt := fmt.Sprintf(gateUserPrompt, truncate(text, gateTextLimit), url)

	resp, err := c.createMessage(ctx, gateSystemPrompt, prompt, 16)
	if err != nil {
		zap.L().Warn("classify: relevance gate call failed",
			zap.String("url", url),
			zap.Error(err),
		)
		return "no"
	}

	return strings.TrimSpace(resp.Text())
}

// Extract runs the stage-2 structured extraction. Failures degrade to the
// zero analysis (score 0, unknown location).
func (c *Classifier) Extract(ctx context.Context, text string) Analysis {
	prompt := fmt.Sprintf(extractUserPrompt, truncate(text, extractTextLimit))

	resp, err := c.createMessage(ctx, extractSystemPrompt, prompt, 64)
	if err != nil {
		zap.L().Warn("classify: extraction call failed", zap.Error(err))
		return Analysis{State: NotAvailable, County: NotAvailable}
	}

	return parseAnalysis(resp.Text())
}

func (c *Classifier) createMessage(ctx context.Context, system, prompt string, maxTokens int64) (*anthropic.MessageResponse, error) {
	temp := 0.0
	req := anthropic.MessageRequest{
		Model:       c.modelID,
		MaxTokens:   maxTokens,
		System:      system,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	}
	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return c.ai.CreateMessage(ctx, req)
	})
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
