package enrich

import (
	"context"
	"log/slog"
	"time"

	"github.com/samorobo/twitter-trends-bot/internal/storage"
	"github.com/samorobo/twitter-trends-bot/pkg/ratelimit"
)

// DefaultDelay is the pause between image lookups. The search API's free tier
// rate limit is calibrated against one call per second.
const DefaultDelay = 1 * time.Second

// Resolver abstracts the image lookup. *images.Resolver satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, topic string) string
}

// Enrich looks up an image for each topic in order and returns one Trend per
// topic, preserving input order. Lookups are strictly sequential with the
// limiter applied after every topic, including the last; running them in
// parallel would burst the search API's rate limit.
func Enrich(ctx context.Context, topics []string, resolver Resolver, limiter *ratelimit.Limiter, logger *slog.Logger) []storage.Trend {
	if logger == nil {
		logger = slog.Default()
	}
	if limiter == nil {
		limiter = ratelimit.NewLimiter(DefaultDelay, 0)
		defer limiter.Stop()
	}

	enriched := make([]storage.Trend, 0, len(topics))
	for _, topic := range topics {
		imageURL := resolver.Resolve(ctx, topic)
		enriched = append(enriched, storage.Trend{Name: topic, ImageURL: imageURL})
		logger.Debug("topic enriched", "topic", topic, "image_url", imageURL)

		if err := limiter.Wait(ctx); err != nil {
			logger.Warn("enrichment delay interrupted", "err", err)
			break
		}
	}

	return enriched
}
