package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// CollyFetcher implements StaticFetcher using the Colly collector. It serves
// as the fast path for secondary prior-art pages; thin results get escalated
// to a browser render by the caller.
type CollyFetcher struct {
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// NewCollyFetcher constructs a configured Colly-based fetcher.
func NewCollyFetcher(userAgent string, timeout time.Duration, logger *zap.Logger) (*CollyFetcher, error) {
	base := colly.NewCollector(
		colly.Async(true),
		colly.UserAgent(userAgent),
	)
	// Prior-art pages can be shared across contests, so revisits are expected.
	base.AllowURLRevisit = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(timeout)

	if err := base.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 4,
		Delay:       200 * time.Millisecond,
	}); err != nil {
		return nil, fmt.Errorf("colly limit rule: %w", err)
	}

	return &CollyFetcher{
		baseCollector: base,
		logger:        logger,
	}, nil
}

type fetchResult struct {
	html string
	err  error
}

// FetchHTML retrieves a page body via the configured collector.
func (f *CollyFetcher) FetchHTML(ctx context.Context, rawURL string) (string, error) {
	collector := f.baseCollector.Clone()
	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	collector.OnResponse(func(r *colly.Response) {
		send(fetchResult{html: string(r.Body)})
	})
	collector.OnError(func(_ *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		send(fetchResult{err: err})
	})

	if err := collector.Visit(rawURL); err != nil {
		return "", fmt.Errorf("visit %s: %w", rawURL, err)
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if res.err != nil {
			return "", fmt.Errorf("fetch %s: %w", rawURL, res.err)
		}
		return res.html, nil
	default:
		return "", fmt.Errorf("no response received for %s", rawURL)
	}
}
