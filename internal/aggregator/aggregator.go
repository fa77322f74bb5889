package aggregator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"reelfeed/internal/catalog"
)

// PageSource fetches a single page of catalog items.
type PageSource interface {
	FetchPage(ctx context.Context, page, perPage int) (*catalog.Page, error)
}

type pageResult struct {
	page  int
	items []catalog.Item
	err   error
}

// Result is the outcome of one FetchCatalog call.
type Result struct {
	Items []catalog.Item
	Err   error
}

// Aggregator turns a paginated source into one ordered catalog. It holds no
// per-call state and may be used from several goroutines at once.
type Aggregator struct {
	source PageSource
	logger zerolog.Logger
}

func New(source PageSource, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		source: source,
		logger: logger.With().Str("component", "aggregator").Logger(),
	}
}

// PagesFor returns the page numbers 1..ceil(target/pageSize).
func PagesFor(target, pageSize int) []int {
	if target <= 0 || pageSize <= 0 {
		return []int{}
	}
	n := (target + pageSize - 1) / pageSize
	pages := make([]int, n)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// FetchCatalog requests every page needed for target items concurrently and
// waits for all of them. Pages are merged in page order and truncated to
// target. If any page fails the error of the lowest failed page is returned
// and no items are.
func (a *Aggregator) FetchCatalog(ctx context.Context, target, pageSize int) ([]catalog.Item, error) {
	pages := PagesFor(target, pageSize)
	if len(pages) == 0 {
		return []catalog.Item{}, nil
	}

	session := uuid.NewString()
	logger := a.logger.With().Str("session", session).Logger()
	start := time.Now()

	logger.Info().
		Int("pages", len(pages)).
		Int("per_page", pageSize).
		Int("target", target).
		Msg("fetching catalog")

	results := make(chan pageResult, len(pages))
	for _, page := range pages {
		go func(page int) {
			resp, err := a.source.FetchPage(ctx, page, pageSize)
			r := pageResult{page: page, err: err}
			if err == nil && resp != nil {
				r.items = resp.Items
			}
			results <- r
		}(page)
	}

	// Only this loop touches slots, firstErr and remaining, so each
	// completion is recorded as a single step.
	slots := make(map[int][]catalog.Item, len(pages))
	var firstErr error
	firstErrPage := 0
	for remaining := len(pages); remaining > 0; remaining-- {
		r := <-results
		if r.err != nil {
			logger.Warn().Err(r.err).Int("page", r.page).Msg("page fetch failed")
			if firstErr == nil || r.page < firstErrPage {
				firstErr = r.err
				firstErrPage = r.page
			}
			continue
		}
		slots[r.page] = r.items
	}

	if firstErr != nil {
		logger.Error().
			Err(firstErr).
			Int("page", firstErrPage).
			Dur("elapsed", time.Since(start)).
			Msg("catalog fetch failed")
		return nil, firstErr
	}

	all := make([]catalog.Item, 0, target)
	for _, page := range pages {
		all = append(all, slots[page]...)
	}
	if len(all) > target {
		all = all[:target]
	}

	logger.Info().
		Int("count", len(all)).
		Dur("elapsed", time.Since(start)).
		Msg("catalog fetch complete")

	return all, nil
}

// FetchCatalogAsync runs FetchCatalog in the background. The returned channel
// receives exactly one Result and is then closed.
func (a *Aggregator) FetchCatalogAsync(ctx context.Context, target, pageSize int) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		items, err := a.FetchCatalog(ctx, target, pageSize)
		out <- Result{Items: items, Err: err}
	}()
	return out
}
