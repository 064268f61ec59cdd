package scraper

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Paginator drives the listing page through its "next page" control.
//
// It is a two-state machine: OnPage(n) advances to OnPage(n+1) when the next
// control is located and activated within the bounded wait, and moves to
// Exhausted when the control is unavailable, the listing container is absent,
// or the page cap is reached. Exhaustion always preserves the batches already
// delivered to visit; it never surfaces as an error past Run.
type Paginator struct {
	nav    Navigator
	cfg    Config
	logger *zap.Logger
}

// NewPaginator constructs a Paginator over the given listing session.
func NewPaginator(nav Navigator, cfg Config, logger *zap.Logger) *Paginator {
	return &Paginator{nav: nav, cfg: cfg, logger: logger}
}

// Run opens the listing URL and invokes visit once per page with that page's
// link batch, in page order. Only the initial navigation can return an error;
// everything after that degrades to exhaustion.
func (p *Paginator) Run(ctx context.Context, visit func(page int, batch ListingBatch)) error {
	htmlText, err := p.nav.Navigate(ctx, p.cfg.ListingURL, "body", p.cfg.DetailWait, p.cfg.SettleDelay)
	if err != nil {
		return err
	}

	for page := 1; page <= p.cfg.MaxPages; page++ {
		batch, err := ExtractListing(htmlText, p.cfg)
		if err != nil {
			if errors.Is(err, ErrNoListing) {
				p.logger.Info("no listing container; pagination exhausted", zap.Int("page", page))
			} else {
				p.logger.Warn("listing extraction failed; stopping pagination",
					zap.Int("page", page), zap.Error(err))
			}
			return nil
		}

		ListingPages.Inc()
		ContestsDiscovered.Add(float64(len(batch.ContestURLs)))
		p.logger.Debug("extracted listing page",
			zap.Int("page", page),
			zap.Int("contest_links", len(batch.ContestURLs)),
			zap.Int("patent_ids", len(batch.PatentIDs)))

		visit(page, batch)

		if page == p.cfg.MaxPages {
			p.logger.Info("page cap reached", zap.Int("max_pages", p.cfg.MaxPages))
			return nil
		}

		if err := p.nav.ClickNext(ctx, p.cfg.NextPageSelector, p.cfg.NextPageWait, p.cfg.ClickSettle); err != nil {
			p.logger.Info("next page control unavailable; pagination exhausted",
				zap.Int("page", page), zap.Error(err))
			return nil
		}

		// Give the list a moment to re-render before snapshotting.
		if err := sleepCtx(ctx, p.cfg.ClickSettle); err != nil {
			return nil
		}
		htmlText, err = p.nav.HTML(ctx)
		if err != nil {
			p.logger.Warn("snapshot after pagination failed; stopping",
				zap.Int("page", page), zap.Error(err))
			return nil
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
