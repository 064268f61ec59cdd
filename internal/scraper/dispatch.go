package scraper

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/unifiedcrawl/patroll-scraper/internal/progress"
)

// ContestProcessor resolves one contest's title and document link in place.
type ContestProcessor struct {
	titles  *TitleExtractor
	locator *DocumentLocator
}

// NewContestProcessor binds the per-contest pipeline to one browser session.
func NewContestProcessor(nav Navigator, static StaticFetcher, detector RenderDetector, cfg Config, logger *zap.Logger) *ContestProcessor {
	return &ContestProcessor{
		titles:  NewTitleExtractor(nav, cfg, logger),
		locator: NewDocumentLocator(nav, static, detector, cfg, logger),
	}
}

// Process fills the entry's Title and DocumentURL. Failures leave the fields
// nil; they never abort the batch.
func (p *ContestProcessor) Process(ctx context.Context, entry *ContestEntry) {
	entry.Title = p.titles.Extract(ctx, entry.DetailURL)
	entry.DocumentURL = p.locator.Locate(ctx, entry.DetailURL, entry.PatentID)
}

// Dispatcher runs the per-contest pipeline over a page batch under one of two
// policies. Sequential uses a single shared session in input order; Parallel
// fans out over a fixed pool where every worker owns a private session.
// Both produce identical output order via index-addressed result slots.
type Dispatcher struct {
	cfg      Config
	shared   Navigator
	factory  SessionFactory
	static   StaticFetcher
	detector RenderDetector
	logger   *zap.Logger
}

// NewDispatcher constructs a Dispatcher. shared is required for the
// sequential policy, factory for the parallel one.
func NewDispatcher(cfg Config, shared Navigator, factory SessionFactory, static StaticFetcher, detector RenderDetector, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		shared:   shared,
		factory:  factory,
		static:   static,
		detector: detector,
		logger:   logger,
	}
}

// Dispatch processes entries and returns them in input order regardless of
// completion order.
func (d *Dispatcher) Dispatch(ctx context.Context, entries []ContestEntry) []ContestEntry {
	if len(entries) == 0 {
		return nil
	}
	if d.cfg.Parallel && d.factory != nil {
		return d.parallel(ctx, entries)
	}
	return d.sequential(ctx, entries)
}

func (d *Dispatcher) sequential(ctx context.Context, entries []ContestEntry) []ContestEntry {
	tracker := progress.New(d.logger, len(entries), 5)
	proc := NewContestProcessor(d.shared, d.static, d.detector, d.cfg, d.logger)

	out := make([]ContestEntry, len(entries))
	for i := range entries {
		entry := entries[i]
		d.logger.Debug("processing contest",
			zap.Int("index", i), zap.String("url", entry.DetailURL))
		proc.Process(ctx, &entry)
		out[i] = entry
		tracker.Done()
	}
	return out
}

func (d *Dispatcher) parallel(ctx context.Context, entries []ContestEntry) []ContestEntry {
	tracker := progress.New(d.logger, len(entries), 5)

	out := make([]ContestEntry, len(entries))
	copy(out, entries)

	workers := d.cfg.Workers
	if workers > len(entries) {
		workers = len(entries)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger := d.logger.With(zap.Int("worker", id))

			sess, err := d.factory.NewSession(ctx)
			if err != nil {
				logger.Error("worker session unavailable", zap.Error(err))
				// Keep draining so the batch terminates; those entries stay
				// with nil title and document fields.
				for range jobs {
					tracker.Done()
				}
				return
			}
			defer func() {
				if cerr := sess.Close(); cerr != nil {
					logger.Warn("session close failed", zap.Error(cerr))
				}
			}()

			proc := NewContestProcessor(sess, d.static, d.detector, d.cfg, logger)
			for i := range jobs {
				entry := entries[i]
				logger.Debug("processing contest",
					zap.Int("index", i), zap.String("url", entry.DetailURL))
				proc.Process(ctx, &entry)
				// Index-addressed slot: input order survives any completion order.
				out[i] = entry
				tracker.Done()
			}
		}(w)
	}

	for i := range entries {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}
