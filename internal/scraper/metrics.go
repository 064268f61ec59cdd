package scraper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ListingPages tracks listing pages successfully extracted.
	ListingPages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "patroll_listing_pages_total",
		Help: "The total number of listing pages extracted.",
	})
	// ContestsDiscovered tracks contest entries found on listing pages.
	ContestsDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "patroll_contests_discovered_total",
		Help: "The total number of contests discovered.",
	})
	// TitlesMissing tracks contests whose title extraction failed.
	TitlesMissing = promauto.NewCounter(prometheus.CounterOpts{
		Name: "patroll_titles_missing_total",
		Help: "The total number of contests with no extractable title.",
	})
	// DocumentsResolved tracks successfully located prior-art documents.
	DocumentsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "patroll_documents_resolved_total",
		Help: "The total number of prior-art document links resolved.",
	})
	// DocumentsMissing tracks contests where no document link was found.
	DocumentsMissing = promauto.NewCounter(prometheus.CounterOpts{
		Name: "patroll_documents_missing_total",
		Help: "The total number of contests with no resolvable document link.",
	})
	// RenderEscalations tracks secondary pages promoted from a static fetch
	// to a full browser render.
	RenderEscalations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "patroll_render_escalations_total",
		Help: "The total number of static fetches escalated to a browser render.",
	})
)
