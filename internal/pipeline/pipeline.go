package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samorobo/twitter-trends-bot/internal/enrich"
	"github.com/samorobo/twitter-trends-bot/internal/report"
	"github.com/samorobo/twitter-trends-bot/internal/storage"
	"github.com/samorobo/twitter-trends-bot/internal/trends"
	"github.com/samorobo/twitter-trends-bot/pkg/ratelimit"
)

// TrendSelector produces the run's topic list and the name of the tier that
// supplied it. *trends.Selector satisfies it.
type TrendSelector interface {
	Select(ctx context.Context) ([]string, string)
}

// Pipeline runs the three stages of a trends run: select topics, enrich each
// with an image, and build the output record. Stages execute strictly in
// sequence; nothing downstream starts before its input is complete.
type Pipeline struct {
	Selector TrendSelector
	Resolver enrich.Resolver
	Limiter  *ratelimit.Limiter
	// Backend persists the run record when set. A storage failure is logged,
	// not fatal; the record is still returned to the caller.
	Backend storage.Backend
	Country string
	Logger  *slog.Logger
}

// Run executes one trends run and returns the completed record. It fails only
// when no topics are available from any tier, which can happen only with an
// empty static list.
func (p *Pipeline) Run(ctx context.Context) (*storage.RunRecord, error) {
	if p.Selector == nil {
		return nil, errors.New("pipeline: Selector is nil")
	}
	if p.Resolver == nil {
		return nil, errors.New("pipeline: Resolver is nil")
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()

	topics, source := p.Selector.Select(ctx)
	if len(topics) == 0 {
		return nil, trends.ErrNoTopics
	}

	enriched := enrich.Enrich(ctx, topics, p.Resolver, p.Limiter, logger)

	record := report.Build(p.Country, source, enriched, time.Since(start))

	if p.Backend != nil {
		if err := p.Backend.Save(ctx, record); err != nil {
			logger.Error("failed to persist run record", "id", record.ID, "err", err)
		}
	}

	return record, nil
}
