package pagination

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Sternrassler/pagefetch/pkg/logging"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrency is the default cap on simultaneously in-flight page fetches.
const DefaultMaxConcurrency = 30

// maxPreallocItems caps the ResultSet capacity hint taken from totalItems.
const maxPreallocItems = 1 << 16

// Config holds coordinator configuration
type Config struct {
	// MaxConcurrency is the maximum number of page fetches in flight at once
	MaxConcurrency int
	// PageTimeout bounds a single page fetch
	PageTimeout time.Duration
	// Progress is called after page 0 and after every completed page (optional)
	Progress ProgressFunc
}

// DefaultConfig returns the default coordinator configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: DefaultMaxConcurrency,
		PageTimeout:    15 * time.Second,
	}
}

// ProgressFunc reports fetch progress. Calls are serialized.
type ProgressFunc func(fetchedPages, totalPages int)

// PageFetcher fetches a single page by its zero-based index
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, page int) (*Page[T], error)
}

// State is the lifecycle state of a coordinator run.
type State int32

// Run states. StateDone and StateFailed are terminal for a run.
const (
	StateNotStarted State = iota
	StateFetchingFirstPage
	StateFetchingRemaining
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateFetchingFirstPage:
		return "fetching_first_page"
	case StateFetchingRemaining:
		return "fetching_remaining"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Coordinator fetches page 0 to learn the page count, then fans out the
// remaining pages over a bounded worker pool.
type Coordinator[T any] struct {
	fetcher PageFetcher[T]
	config  Config
	logger  zerolog.Logger
	state   atomic.Int32
}

// NewCoordinator creates a new coordinator
func NewCoordinator[T any](fetcher PageFetcher[T], config Config) *Coordinator[T] {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = DefaultMaxConcurrency
	}
	if config.PageTimeout <= 0 {
		config.PageTimeout = 15 * time.Second
	}

	return &Coordinator[T]{
		fetcher: fetcher,
		config:  config,
		logger:  logging.NewLogger("pagination"),
	}
}

// State returns the state of the current or last run.
func (c *Coordinator[T]) State() State {
	return State(c.state.Load())
}

// FetchAll fetches every page and returns the collected items.
//
// The first failing page aborts the run: pages not yet started are never
// requested, fetches already in flight finish, and the first error is
// returned without a partial result.
func (c *Coordinator[T]) FetchAll(ctx context.Context) (*Result[T], error) {
	if !c.begin() {
		return nil, ErrRunInProgress
	}

	start := time.Now()
	result, err := c.run(ctx)
	if err != nil {
		c.state.Store(int32(StateFailed))
		runsTotal.WithLabelValues("failed").Inc()
		runDuration.Observe(time.Since(start).Seconds())
		c.logger.Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("Fetch run failed")
		return nil, err
	}

	result.Duration = time.Since(start)
	c.state.Store(int32(StateDone))
	runsTotal.WithLabelValues("done").Inc()
	runDuration.Observe(result.Duration.Seconds())

	c.logger.Info().
		Int("pages", result.TotalPages).
		Int("items", result.Items.Len()).
		Int("expected", result.ExpectedCount).
		Bool("complete", result.Complete()).
		Dur("duration", result.Duration).
		Msg("Fetch complete")

	return result, nil
}

// begin moves the coordinator into FetchingFirstPage unless a run is active.
func (c *Coordinator[T]) begin() bool {
	for {
		current := State(c.state.Load())
		if current == StateFetchingFirstPage || current == StateFetchingRemaining {
			return false
		}
		if c.state.CompareAndSwap(int32(current), int32(StateFetchingFirstPage)) {
			return true
		}
	}
}

func (c *Coordinator[T]) run(ctx context.Context) (*Result[T], error) {
	first, err := c.fetchPage(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch first page: %w", err)
	}
	if err := checkConsistent(first, first, 0); err != nil {
		return nil, fmt.Errorf("fetch first page: %w", err)
	}

	items := NewResultSet[T](min(first.TotalItems, maxPreallocItems))
	items.Append(first.Items...)
	itemsFetched.Add(float64(len(first.Items)))

	c.logger.Info().
		Int("total_pages", first.TotalPages).
		Int("total_items", first.TotalItems).
		Msg("Fetched first page")

	progress := newProgressTracker(first.TotalPages, c.config.Progress, c.logger)
	progress.pageDone()

	result := &Result[T]{
		Items:         items,
		ExpectedCount: first.TotalItems,
		TotalPages:    first.TotalPages,
	}

	// Single page (or empty resource): nothing to fan out
	if first.TotalPages <= 1 {
		return result, nil
	}

	c.state.Store(int32(StateFetchingRemaining))
	if err := c.fetchRemaining(ctx, first, items, progress); err != nil {
		return nil, err
	}

	return result, nil
}

// fetchRemaining fetches pages 1..TotalPages-1 with at most MaxConcurrency
// workers. Workers fetch with the caller's ctx, so a sibling failure only
// stops dispatch of new pages.
func (c *Coordinator[T]) fetchRemaining(ctx context.Context, first *Page[T], items *ResultSet[T], progress *progressTracker) error {
	remaining := first.TotalPages - 1
	workers := min(c.config.MaxConcurrency, remaining)

	g, groupCtx := errgroup.WithContext(ctx)
	pageQueue := make(chan int)

	g.Go(func() error {
		defer close(pageQueue)
		for page := 1; page < first.TotalPages; page++ {
			select {
			case pageQueue <- page:
			case <-groupCtx.Done():
				return nil
			}
		}
		return nil
	})

	c.logger.Debug().
		Int("workers", workers).
		Int("pages", remaining).
		Msg("Starting parallel page fetch")

	for i := 0; i < workers; i++ {
		workerID := i
		g.Go(func() error {
			return c.worker(ctx, groupCtx, workerID, first, pageQueue, items, progress)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("fetch remaining pages: %w", err)
	}
	return nil
}

// worker processes pages from the queue until it is closed or the run fails
func (c *Coordinator[T]) worker(ctx, groupCtx context.Context, workerID int, first *Page[T], pageQueue <-chan int, items *ResultSet[T], progress *progressTracker) error {
	pagesProcessed := 0

	for pageNum := range pageQueue {
		if groupCtx.Err() != nil {
			c.logger.Debug().
				Int("worker_id", workerID).
				Int("pages_processed", pagesProcessed).
				Msg("Worker stopping (run cancelled)")
			return nil
		}

		page, err := c.fetchPage(ctx, pageNum)
		if err != nil {
			c.logger.Warn().
				Err(err).
				Int("worker_id", workerID).
				Int("page", pageNum).
				Msg("Page fetch failed")
			return fmt.Errorf("fetch page %d: %w", pageNum, err)
		}

		if err := checkConsistent(first, page, pageNum); err != nil {
			return err
		}

		items.Append(page.Items...)
		itemsFetched.Add(float64(len(page.Items)))
		progress.pageDone()
		pagesProcessed++
	}

	if pagesProcessed > 0 {
		c.logger.Debug().
			Int("worker_id", workerID).
			Int("pages_processed", pagesProcessed).
			Msg("Worker completed")
	}
	return nil
}

// fetchPage performs one fetch under the page timeout and validates the result.
func (c *Coordinator[T]) fetchPage(ctx context.Context, pageNum int) (*Page[T], error) {
	pageCtx, cancel := context.WithTimeout(ctx, c.config.PageTimeout)
	defer cancel()

	pagesInFlight.Inc()
	start := time.Now()
	page, err := c.fetcher.FetchPage(pageCtx, pageNum)
	pageFetchDuration.Observe(time.Since(start).Seconds())
	pagesInFlight.Dec()

	if err == nil && page == nil {
		err = &InconsistentPaginationError{Page: pageNum, Reason: "fetcher returned no page"}
	}
	if err == nil {
		err = page.Validate()
	}
	if err != nil {
		pagesFetchedTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	pagesFetchedTotal.WithLabelValues("success").Inc()
	c.logger.Debug().
		Int("page", pageNum).
		Int("items", len(page.Items)).
		Dur("duration", time.Since(start)).
		Msg("Page fetched")
	return page, nil
}

// checkConsistent rejects pages whose metadata drifted from page 0.
func checkConsistent[T any](first, page *Page[T], requested int) error {
	if page.PageNumber != requested {
		return &InconsistentPaginationError{
			Page:   requested,
			Reason: fmt.Sprintf("server answered with pageNumber %d", page.PageNumber),
		}
	}
	if page.TotalPages != first.TotalPages || page.TotalItems != first.TotalItems {
		return &InconsistentPaginationError{
			Page: requested,
			Reason: fmt.Sprintf("totals changed during run: totalPages %d->%d, totalItems %d->%d",
				first.TotalPages, page.TotalPages, first.TotalItems, page.TotalItems),
		}
	}
	return nil
}

// progressTracker serializes progress callbacks and logs every 50 pages.
type progressTracker struct {
	mu         sync.Mutex
	fetched    int
	totalPages int
	fn         ProgressFunc
	logger     zerolog.Logger
}

func newProgressTracker(totalPages int, fn ProgressFunc, logger zerolog.Logger) *progressTracker {
	return &progressTracker{totalPages: totalPages, fn: fn, logger: logger}
}

func (p *progressTracker) pageDone() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.fetched++
	if p.fn != nil {
		p.fn(p.fetched, p.totalPages)
	}

	if p.fetched%50 == 0 {
		p.logger.Info().
			Int("fetched", p.fetched).
			Int("total", p.totalPages).
			Float64("progress_pct", float64(p.fetched)/float64(p.totalPages)*100).
			Msg("Fetch progress")
	}
}
