package trends

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samorobo/twitter-trends-bot/internal/metrics"
)

// ErrNoTopics is returned by the pipeline when every tier, including the
// static one, produced an empty list. That only happens when the static list
// is configured empty.
var ErrNoTopics = errors.New("no topics available from any source")

// Selector walks an ordered chain of sources and settles on the first one
// that yields topics. Adding a fourth tier is appending to the chain.
type Selector struct {
	sources []Source
	logger  *slog.Logger
}

// NewSelector creates a selector over the given sources, tried in order.
func NewSelector(logger *slog.Logger, sources ...Source) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{sources: sources, logger: logger}
}

// Select returns the first non-empty topic list in tier order along with the
// name of the source that produced it. Failures and empty results are logged
// and recovered by moving to the next tier; Select itself never fails. If
// every tier comes up empty it returns an empty list and the last tier's name.
func (s *Selector) Select(ctx context.Context) ([]string, string) {
	lastName := ""
	for _, src := range s.sources {
		lastName = src.Name()

		topics, err := src.Topics(ctx)
		if err != nil {
			metrics.RecordSourceAttempt(src.Name(), false)
			s.logger.Warn("trend source failed, trying next tier", "source", src.Name(), "err", err)
			continue
		}
		if len(topics) == 0 {
			metrics.RecordSourceAttempt(src.Name(), false)
			s.logger.Warn("trend source returned no topics, trying next tier", "source", src.Name())
			continue
		}

		if len(topics) > MaxTopics {
			topics = topics[:MaxTopics]
		}
		metrics.RecordSourceAttempt(src.Name(), true)
		s.logger.Info("trends selected", "source", src.Name(), "count", len(topics))
		return topics, src.Name()
	}

	return nil, lastName
}
