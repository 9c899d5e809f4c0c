package trends

import (
	"context"
	"fmt"

	"github.com/samorobo/twitter-trends-bot/internal/browser"
)

// MaxTopics caps how many trends a source reports.
const MaxTopics = 5

// Source produces an ordered list of trending topics for one tier of the
// fallback chain. Index 0 is the top trend.
type Source interface {
	Name() string
	Topics(ctx context.Context) ([]string, error)
}

// Extractor is the rendered-page extraction primitive a PageSource drives.
// *browser.Extractor satisfies it.
type Extractor interface {
	Extract(ctx context.Context, target browser.Target) ([]string, error)
}

// PageSource scrapes topics from one live trends page. Different sites only
// differ in their locators, so every live tier is the same extraction
// primitive with its own Target.
type PageSource struct {
	name      string
	target    browser.Target
	extractor Extractor
}

// NewPageSource creates a source that extracts topics from the given target.
func NewPageSource(name string, extractor Extractor, target browser.Target) *PageSource {
	return &PageSource{name: name, target: target, extractor: extractor}
}

func (s *PageSource) Name() string {
	return s.name
}

func (s *PageSource) Topics(ctx context.Context) ([]string, error) {
	return s.extractor.Extract(ctx, s.target)
}

// GetDayTrends returns the primary tier: the getdaytrends.com page for the
// given region, which lays its trends out as table rows.
func GetDayTrends(extractor Extractor, region string) *PageSource {
	return NewPageSource("getdaytrends", extractor, browser.Target{
		URL:          fmt.Sprintf("https://getdaytrends.com/%s/", region),
		WaitSelector: "table.trends-table",
		ItemSelector: "table.trends-table tbody tr td:first-child a",
		MaxItems:     MaxTopics,
	})
}

// Trends24 returns the secondary tier: the trends24.in page for the given
// region, which lays its trends out as an ordered list.
func Trends24(extractor Extractor, region string) *PageSource {
	return NewPageSource("trends24", extractor, browser.Target{
		URL:          fmt.Sprintf("https://trends24.in/%s/", region),
		WaitSelector: "ol.trend-card__list",
		ItemSelector: "ol.trend-card__list li a",
		MaxItems:     MaxTopics,
	})
}

// DefaultStaticTopics is the last-resort topic list. The entries carry no
// meaning beyond being plausible for the region; override them via
// configuration rather than reading anything into them.
var DefaultStaticTopics = []string{
	"#NigeriaDecides2023",
	"Naira",
	"Lagos",
	"Peter Obi",
	"Davido",
}

// StaticSource is the terminal tier. It returns a fixed list and never fails,
// guaranteeing the pipeline always has topics once it is reached.
type StaticSource struct {
	topics []string
}

// NewStaticSource creates a static source from the given list. A nil list
// falls back to DefaultStaticTopics.
func NewStaticSource(topics []string) *StaticSource {
	if topics == nil {
		topics = DefaultStaticTopics
	}
	copied := make([]string, len(topics))
	copy(copied, topics)
	if len(copied) > MaxTopics {
		copied = copied[:MaxTopics]
	}
	return &StaticSource{topics: copied}
}

func (s *StaticSource) Name() string {
	return "static"
}

func (s *StaticSource) Topics(ctx context.Context) ([]string, error) {
	out := make([]string, len(s.topics))
	copy(out, s.topics)
	return out, nil
}
