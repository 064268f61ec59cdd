// Package browser drives headless Chrome sessions via chromedp.
//
// Each Session owns one browser process and one tab. Navigation mutates the
// tab's current document in place, so a Session must never be shared across
// concurrent workers; the Factory exists to hand each worker its own.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// blockedURLPatterns trims page weight; the crawl only reads markup.
var blockedURLPatterns = []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.woff", "*.woff2", "*.mp4"}

// Config controls browser behavior.
type Config struct {
	Headless  bool
	UserAgent string
	// DomainQPS caps navigations per host. Zero disables the limiter.
	DomainQPS float64
}

// Session wraps a single headless browser instance.
type Session struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	logger        *zap.Logger
	domainQPS     float64
	limiters      sync.Map
}

// NewSession launches a browser and warms it up.
func NewSession(cfg Config, logger *zap.Logger) (*Session, error) {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.WindowSize(1280, 720),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	warmup := chromedp.Tasks{
		network.Enable(),
		network.SetBlockedURLS(blockedURLPatterns),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "en-US,en;q=0.9"}),
	}
	if err := chromedp.Run(browserCtx, warmup); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("chromedp warmup: %w", err)
	}

	return &Session{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		logger:        logger,
		domainQPS:     cfg.DomainQPS,
	}, nil
}

// Close tears down the browser and its allocator.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.browserCancel()
	s.allocCancel()
	return nil
}

// Navigate loads a URL, waits for waitSelector to be ready within timeout,
// optionally settles, and returns the rendered outer HTML. A timeout is
// reported to the caller; it is never retried here.
func (s *Session) Navigate(ctx context.Context, rawURL, waitSelector string, timeout, settle time.Duration) (string, error) {
	if err := s.waitDomainBudget(ctx, rawURL); err != nil {
		return "", fmt.Errorf("navigation rate limit: %w", err)
	}

	taskCtx, cancel := s.taskContext(ctx, timeout)
	defer cancel()

	var html string
	tasks := chromedp.Tasks{
		chromedp.Navigate(rawURL),
		chromedp.WaitReady(waitSelector, chromedp.ByQuery),
	}
	if settle > 0 {
		tasks = append(tasks, chromedp.Sleep(settle))
	}
	tasks = append(tasks, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return "", fmt.Errorf("navigate %s: %w", rawURL, err)
	}
	return html, nil
}

// HTML snapshots the current document without navigating.
func (s *Session) HTML(ctx context.Context) (string, error) {
	taskCtx, cancel := s.taskContext(ctx, 10*time.Second)
	defer cancel()

	var html string
	if err := chromedp.Run(taskCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("snapshot html: %w", err)
	}
	return html, nil
}

// ClickNext scrolls the selector into view and clicks it within timeout.
// A settle pause after the scroll gives the page time to reflow before the
// click lands; the caller settles again before reading the new page.
func (s *Session) ClickNext(ctx context.Context, selector string, timeout, settle time.Duration) error {
	taskCtx, cancel := s.taskContext(ctx, timeout)
	defer cancel()

	tasks := chromedp.Tasks{
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.ScrollIntoView(selector, chromedp.ByQuery),
	}
	if settle > 0 {
		tasks = append(tasks, chromedp.Sleep(settle))
	}
	tasks = append(tasks, chromedp.Click(selector, chromedp.ByQuery))

	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

// taskContext bounds a chromedp task with timeout and forwards cancellation
// from the caller's context onto the browser task.
func (s *Session) taskContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	taskCtx, cancelTask := context.WithTimeout(s.browserCtx, timeout)
	stop := forwardCancel(parent, cancelTask)
	return taskCtx, func() {
		stop()
		cancelTask()
	}
}

func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}

func (s *Session) waitDomainBudget(ctx context.Context, rawURL string) error {
	if s.domainQPS <= 0 {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	host := strings.ToLower(parsed.Host)
	val, _ := s.limiters.LoadOrStore(host, rate.NewLimiter(rate.Limit(s.domainQPS), 1))
	limiter, ok := val.(*rate.Limiter)
	if !ok {
		return fmt.Errorf("unexpected limiter type %T", val)
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait limiter: %w", err)
	}
	return nil
}

// Factory creates independent sessions, one per pool worker.
type Factory struct {
	cfg    Config
	logger *zap.Logger
}

// NewFactory returns a Factory with the given browser configuration.
func NewFactory(cfg Config, logger *zap.Logger) *Factory {
	return &Factory{cfg: cfg, logger: logger}
}

// NewSession launches a fresh browser instance.
func (f *Factory) NewSession(_ context.Context) (*Session, error) {
	return NewSession(f.cfg, f.logger)
}
