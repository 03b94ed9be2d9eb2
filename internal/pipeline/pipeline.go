// Package pipeline orchestrates one end-to-end detection run: query
// expansion, tweet search, dedup, two-stage classification, and
// incremental persistence of verified incidents.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agilemorph/firewatch/internal/dedupe"
	"github.com/agilemorph/firewatch/internal/model"
	"github.com/agilemorph/firewatch/internal/queryspace"
	"github.com/agilemorph/firewatch/internal/store"
	"github.com/agilemorph/firewatch/pkg/twitterapi"
)

// Classifier is the candidate evaluation surface the pipeline needs.
type Classifier interface {
	// TooShort reports whether the text is below the minimum length worth
	// classifying.
	TooShort(text string) bool
	// Classify evaluates one candidate, returning the incident to persist
	// and true when it passes both stages.
	Classify(ctx context.Context, cand model.Candidate) (*model.Incident, bool)
}

// Config sets the search space and output for one run.
type Config struct {
	Locations   []string
	Keywords    []string
	Accounts    []string
	MaxComboLen int
	MaxResults  int
	// XLSXPath, when set, mirrors the store to a spreadsheet after every
	// newly persisted incident.
	XLSXPath string
}

// Summary reports what one run did.
type Summary struct {
	RunID    string
	Queries  int
	Fetched  int
	Unique   int
	Skipped  int
	Verified int
	Stored   int
}

// Pipeline wires the search client, classifier, and store into a run loop.
// Per-query and per-candidate failures are logged and skipped; only a
// cancelled context or a failing seen-id load stops a run.
type Pipeline struct {
	search     twitterapi.Client
	classifier Classifier
	store      store.Store
	cfg        Config
}

// New creates a Pipeline.
func New(search twitterapi.Client, classifier Classifier, st store.Store, cfg Config) *Pipeline {
	return &Pipeline{
		search:     search,
		classifier: classifier,
		store:      st,
		cfg:        cfg,
	}
}

// Run executes one full detection sweep: every expanded keyword query,
// then every watched account timeline. Work persisted before an error or
// cancellation stays persisted; re-running continues where the store
// left off.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString()}

	seedIDs, err := p.store.SeenIDs(ctx)
	if err != nil {
		return summary, eris.Wrap(err, "pipeline: load seen ids")
	}
	seen := dedupe.NewSeenSet(seedIDs)

	queries := queryspace.Build(p.cfg.Locations, p.cfg.Keywords, p.cfg.MaxComboLen)
	zap.L().Info("pipeline: starting run",
		zap.String("run_id", summary.RunID),
		zap.Int("queries", len(queries)),
		zap.Int("accounts", len(p.cfg.Accounts)),
		zap.Int("known_ids", seen.Len()),
	)

	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			return summary, eris.Wrap(err, "pipeline: run cancelled")
		}
		query := query
		p.sweep(ctx, summary, seen, query, func(ctx context.Context) ([]model.Candidate, error) {
			return p.search.Search(ctx, query, p.cfg.MaxResults)
		})
	}

	for _, handle := range p.cfg.Accounts {
		if err := ctx.Err(); err != nil {
			return summary, eris.Wrap(err, "pipeline: run cancelled")
		}
		handle := handle
		p.sweep(ctx, summary, seen, "from:"+handle, func(ctx context.Context) ([]model.Candidate, error) {
			return p.search.SearchByAuthor(ctx, handle, p.cfg.MaxResults)
		})
	}

	zap.L().Info("pipeline: run complete",
		zap.String("run_id", summary.RunID),
		zap.Int("queries_run", summary.Queries),
		zap.Int("candidates_fetched", summary.Fetched),
		zap.Int("unique_candidates", summary.Unique),
		zap.Int("skipped_short", summary.Skipped),
		zap.Int("verified", summary.Verified),
		zap.Int("stored", summary.Stored),
	)
	return summary, nil
}

// sweep runs one search and pushes its novel candidates through
// classification and the store. Search failures cost only this query.
func (p *Pipeline) sweep(ctx context.Context, summary *Summary, seen *dedupe.SeenSet, label string, fetch func(context.Context) ([]model.Candidate, error)) {
	summary.Queries++

	candidates, err := fetch(ctx)
	if err != nil {
		zap.L().Warn("pipeline: search failed, skipping query",
			zap.String("query", label),
			zap.Error(err),
		)
		return
	}
	summary.Fetched += len(candidates)

	novel := dedupe.FilterNovel(candidates, seen)
	summary.Unique += len(novel)
	if len(novel) == 0 {
		return
	}

	zap.L().Debug("pipeline: classifying candidates",
		zap.String("query", label),
		zap.Int("novel", len(novel)),
	)

	for _, cand := range novel {
		if ctx.Err() != nil {
			return
		}
		if p.classifier.TooShort(cand.Text) {
			summary.Skipped++
			continue
		}

		inc, ok := p.classifier.Classify(ctx, cand)
		if !ok {
			continue
		}
		summary.Verified++

		inserted, err := p.store.Append(ctx, *inc)
		if err != nil {
			zap.L().Error("pipeline: persist failed",
				zap.String("tweet_id", inc.TweetID),
				zap.Error(err),
			)
			continue
		}
		if !inserted {
			continue
		}
		summary.Stored++

		zap.L().Info("pipeline: incident verified",
			zap.String("tweet_id", inc.TweetID),
			zap.Int("score", inc.FireRelatedScore),
			zap.String("state", inc.State),
			zap.String("county", inc.County),
		)
		p.mirror(ctx)
	}
}

// mirror rewrites the spreadsheet copy of the store. Mirror failures are
// logged only; the durable record is already written.
func (p *Pipeline) mirror(ctx context.Context) {
	if p.cfg.XLSXPath == "" {
		return
	}
	records, err := p.store.Records(ctx)
	if err != nil {
		zap.L().Warn("pipeline: read records for mirror", zap.Error(err))
		return
	}
	if err := store.WriteXLSX(p.cfg.XLSXPath, records); err != nil {
		zap.L().Warn("pipeline: write xlsx mirror",
			zap.String("path", p.cfg.XLSXPath),
			zap.Error(err),
		)
	}
}
