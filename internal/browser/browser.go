package browser

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/samorobo/twitter-trends-bot/internal/metrics"
	"github.com/samorobo/twitter-trends-bot/pkg/proxy"
	"github.com/samorobo/twitter-trends-bot/pkg/useragent"
)

// DefaultWaitTimeout bounds how long Extract waits for the page to render.
const DefaultWaitTimeout = 10 * time.Second

// LoadError indicates a rendering or extraction attempt failed. The caller
// gets either a full extraction or a LoadError, never partial results.
type LoadError struct {
	URL   string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.URL, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Target describes what to harvest from a rendered page.
type Target struct {
	URL string
	// WaitSelector is the CSS selector whose visibility signals the page has
	// finished rendering. The pages we scrape build their markup with
	// JavaScript, so a static fetch returns an empty shell.
	WaitSelector string
	// ItemSelector is the CSS selector for the repeated elements whose text
	// is collected, in DOM order.
	ItemSelector string
	// MaxItems caps how many items are returned. Zero means no cap.
	MaxItems int
}

// Options configures how browser sessions are launched.
type Options struct {
	WaitTimeout time.Duration
	UserAgents  *useragent.Pool
	Proxies     *proxy.Pool
	Logger      *slog.Logger
}

// Extractor drives one headless browser session per Extract call. Sessions
// are never shared or reused; each call owns its browser process and tears it
// down on every exit path.
type Extractor struct {
	opts   Options
	logger *slog.Logger
}

// NewExtractor creates an Extractor with the given options.
func NewExtractor(opts Options) *Extractor {
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = DefaultWaitTimeout
	}
	if opts.UserAgents == nil {
		opts.UserAgents = useragent.NewPool(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{opts: opts, logger: logger}
}

// Extract navigates a fresh headless session to the target URL, waits for the
// readiness selector, and collects trimmed text from the item selector in DOM
// order, capped at MaxItems. Any failure during launch, navigation, waiting,
// or parsing is reported as a *LoadError.
func (e *Extractor) Extract(ctx context.Context, target Target) ([]string, error) {
	start := time.Now()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		// Sandboxing is unavailable inside most container runtimes.
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(e.opts.UserAgents.GetRandom()),
	)

	var activeProxy *url.URL
	if e.opts.Proxies != nil {
		activeProxy = e.opts.Proxies.Next()
		if activeProxy != nil {
			allocOpts = append(allocOpts, chromedp.ProxyServer(activeProxy.String()))
		}
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	waitCtx, cancelWait := context.WithTimeout(browserCtx, e.opts.WaitTimeout)
	defer cancelWait()

	e.logger.Debug("rendering page", "url", target.URL, "wait", target.WaitSelector)

	var html string
	err := chromedp.Run(waitCtx,
		chromedp.Navigate(target.URL),
		chromedp.WaitVisible(target.WaitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if activeProxy != nil {
			_ = e.opts.Proxies.MarkFailure(activeProxy)
		}
		metrics.RecordExtraction(hostOf(target.URL), time.Since(start), false)
		return nil, &LoadError{URL: target.URL, Cause: err}
	}

	if activeProxy != nil {
		_ = e.opts.Proxies.MarkSuccess(activeProxy)
	}

	items, err := parseItems(html, target.ItemSelector, target.MaxItems)
	if err != nil {
		metrics.RecordExtraction(hostOf(target.URL), time.Since(start), false)
		return nil, &LoadError{URL: target.URL, Cause: err}
	}

	metrics.RecordExtraction(hostOf(target.URL), time.Since(start), true)
	e.logger.Debug("extracted items", "url", target.URL, "count", len(items))
	return items, nil
}

// parseItems collects trimmed, non-empty text from the elements matching the
// selector, truncating to max when max > 0.
func parseItems(html, selector string, max int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse rendered html: %w", err)
	}

	var items []string
	doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			items = append(items, text)
		}
		return max <= 0 || len(items) < max
	})

	return items, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
