package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vapaweb/internal/domain"
)

// Fetcher is the slice of the event service the controller needs.
type Fetcher interface {
	Query(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) (*domain.EventPage, error)
}

// FilterState is the client-held filter combination. It is the cache key
// for refetching and is never persisted; a full page reload starts over
// from defaults.
type FilterState struct {
	Year     int              // 0 = all years
	Type     domain.EventType // "" = all types
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int // domain.PageSizeAll = show everything
}

// Fingerprint returns a deterministic cache key for the state. Responses
// are applied only while their fingerprint still matches the current state,
// which is what discards a superseded in-flight fetch.
func (s FilterState) Fingerprint() string {
	from, to := "", ""
	if s.DateFrom != nil {
		from = s.DateFrom.Format("2006-01-02")
	}
	if s.DateTo != nil {
		to = s.DateTo.Format("2006-01-02")
	}
	return fmt.Sprintf("y=%d|t=%s|from=%s|to=%s|p=%d|ps=%d", s.Year, s.Type, from, to, s.Page, s.PageSize)
}

func (s FilterState) filter() domain.EventFilter {
	return domain.EventFilter{Year: s.Year, Type: s.Type, DateFrom: s.DateFrom, DateTo: s.DateTo}
}

func (s FilterState) params() domain.PaginationParams {
	return domain.PaginationParams{Page: s.Page, PageSize: s.PageSize}
}

// View is the snapshot handed to the OnChange callback after every
// transition. While a refetch is in flight the previous page's events stay
// in the view (Loading true), so the list never flashes to empty. Err is a
// transient retrieval failure; the events shown alongside it are the last
// successful page.
type View struct {
	Filters     FilterState
	Events      []*domain.Event
	TotalCount  int
	TotalPages  int
	PageNumbers []int
	Loading     bool
	Animate     bool
	ScrollToTop bool
	Err         error
}

// Options configures a FilterController. Page size choices and the pager
// window width are configuration, not constants, so call sites with
// different layouts can differ.
type Options struct {
	PageSize   int // initial page size; domain.PageSizeAll allowed
	PageWindow int // page-number window width for View.PageNumbers
	OnChange   func(View)
}

// FilterController drives the digital-library and admin-table event lists:
// it owns the current FilterState, refetches when the state changes, and
// resolves races between overlapping fetches in favor of the newest state.
// All methods are safe for concurrent use.
type FilterController struct {
	fetcher Fetcher
	opts    Options

	mu          sync.Mutex
	filters     FilterState
	years       []int
	events      []*domain.Event
	totalCount  int
	loading     bool
	animate     bool
	scrollToTop bool
	err         error
}

// NewFilterController returns a controller at the default state: no
// filters, page 1, the configured page size.
func NewFilterController(fetcher Fetcher, opts Options) *FilterController {
	if opts.PageWindow == 0 {
		opts.PageWindow = 7
	}
	return &FilterController{
		fetcher: fetcher,
		opts:    opts,
		filters: FilterState{Page: 1, PageSize: opts.PageSize},
		events:  []*domain.Event{},
		animate: true,
	}
}

// Seed installs the server-computed initial page (no filters, page 1)
// without triggering a fetch.
func (c *FilterController) Seed(events []*domain.Event, totalCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if events == nil {
		events = []*domain.Event{}
	}
	c.events = events
	c.totalCount = totalCount
	c.emitLocked()
}

// SetAvailableYears installs the year facet used to validate later SetYear
// calls.
func (c *FilterController) SetAvailableYears(years []int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.years = years
}

// State returns a copy of the current filter state.
func (c *FilterController) State() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// SetYear applies a year filter (0 = all). A year outside the available
// facet is a bad external input and falls back to "all" rather than
// producing a guaranteed-empty page.
func (c *FilterController) SetYear(ctx context.Context, year int) {
	c.mu.Lock()
	if year != 0 && !c.yearAvailableLocked(year) {
		year = 0
	}
	c.filters.Year = year
	c.filterChangedLocked()
	c.refetchLocked(ctx)
}

// SetType applies a type filter ("" = all). An unrecognized value is
// treated as no filter and never forwarded to the engine.
func (c *FilterController) SetType(ctx context.Context, t domain.EventType) {
	if t != "" && !t.Valid() {
		t = ""
	}
	c.mu.Lock()
	c.filters.Type = t
	c.filterChangedLocked()
	c.refetchLocked(ctx)
}

// SetDateRange applies inclusive date bounds; nil clears a bound.
func (c *FilterController) SetDateRange(ctx context.Context, from, to *time.Time) {
	c.mu.Lock()
	c.filters.DateFrom = from
	c.filters.DateTo = to
	c.filterChangedLocked()
	c.refetchLocked(ctx)
}

// ResetFilters clears every filter and returns to page 1.
func (c *FilterController) ResetFilters(ctx context.Context) {
	c.mu.Lock()
	c.filters.Year = 0
	c.filters.Type = ""
	c.filters.DateFrom = nil
	c.filters.DateTo = nil
	c.filterChangedLocked()
	c.refetchLocked(ctx)
}

// SetPageSize changes the page size and returns to page 1. Unlike a filter
// change this is a softer navigation: the animated reveal is suppressed.
func (c *FilterController) SetPageSize(ctx context.Context, size int) {
	if size < 0 {
		size = domain.PageSizeAll
	}
	c.mu.Lock()
	c.filters.PageSize = size
	c.filters.Page = 1
	c.animate = false
	c.scrollToTop = false
	c.refetchLocked(ctx)
}

// SetPage jumps to a page, keeping all other filters. The view is asked to
// scroll back to the filter/results region and the reveal animation is
// suppressed.
func (c *FilterController) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.filters.Page = page
	c.animate = false
	c.scrollToTop = true
	c.refetchLocked(ctx)
}

// Refresh refetches the current state. Called after a successful admin
// mutation: writes are only eventually visible, so the table invalidates
// itself instead of expecting a push.
func (c *FilterController) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.animate = false
	c.scrollToTop = false
	c.refetchLocked(ctx)
}

func (c *FilterController) yearAvailableLocked(year int) bool {
	for _, y := range c.years {
		if y == year {
			return true
		}
	}
	return false
}

// filterChangedLocked is the shared transition for year/type/date changes:
// back to page 1 with an animated reveal of the new result list.
func (c *FilterController) filterChangedLocked() {
	c.filters.Page = 1
	c.animate = true
	c.scrollToTop = false
}

// refetchLocked issues the fetch for the current state. It is entered with
// the lock held and releases it while the fetch runs. The result is applied
// only if the state fingerprint is unchanged; otherwise a newer transition
// owns the view and this response is dropped.
func (c *FilterController) refetchLocked(ctx context.Context) {
	fp := c.filters.Fingerprint()
	filter := c.filters.filter()
	params := c.filters.params()
	c.loading = true
	c.emitLocked()
	c.mu.Unlock()

	page, err := c.fetcher.Query(ctx, filter, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.filters.Fingerprint() != fp {
		// Superseded by a newer transition; silently discard.
		return
	}
	c.loading = false
	if err != nil {
		c.err = err
		c.emitLocked()
		return
	}
	c.err = nil
	c.events = page.Events
	if c.events == nil {
		c.events = []*domain.Event{}
	}
	c.totalCount = page.TotalCount
	c.emitLocked()
}

func (c *FilterController) emitLocked() {
	if c.opts.OnChange == nil {
		return
	}
	c.opts.OnChange(c.viewLocked())
}

func (c *FilterController) viewLocked() View {
	params := c.filters.params()
	totalPages := params.TotalPages(c.totalCount)
	return View{
		Filters:     c.filters,
		Events:      c.events,
		TotalCount:  c.totalCount,
		TotalPages:  totalPages,
		PageNumbers: domain.PageNumbers(c.filters.Page, totalPages, c.opts.PageWindow),
		Loading:     c.loading,
		Animate:     c.animate,
		ScrollToTop: c.scrollToTop,
		Err:         c.err,
	}
}
