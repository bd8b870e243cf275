// Package search drives the home view: it owns the query, filters, results
// and page, runs searches against a Searcher and decides what the user sees
// when a search succeeds, comes back empty or fails.
//
// Overlapping searches are allowed. Each search takes a sequence number and
// only the response of the most recently started search changes the state;
// older responses are dropped when they arrive. Requests are never cancelled.
package search

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/openlibrary"
)

type State string

const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateReady     State = "ready"
	StateErrored   State = "errored"
	StateEmpty     State = "empty"
)

type NoticeKind string

const (
	NoticeNone          NoticeKind = ""
	NoticeBlankQuery    NoticeKind = "blank-query"
	NoticePartialPage   NoticeKind = "partial-page"
	NoticeStaleFallback NoticeKind = "stale-fallback"
	NoticeFailed        NoticeKind = "failed"
	NoticeNoResults     NoticeKind = "no-results"
)

var noticeMessages = map[NoticeKind]string{
	NoticeBlankQuery:    "Please enter a search term.",
	NoticePartialPage:   "No books found on this page, try another.",
	NoticeStaleFallback: "Network error. Showing last known results.",
	NoticeFailed:        "Failed to fetch data. Please retry.",
	NoticeNoResults:     "No results found.",
}

// Notice is the message shown above the results.
type Notice struct {
	Kind    NoticeKind `json:"kind,omitempty"`
	Message string     `json:"message,omitempty"`
}

func newNotice(kind NoticeKind) Notice {
	return Notice{Kind: kind, Message: noticeMessages[kind]}
}

// IsError reports whether the notice is shown as an error.
func (n Notice) IsError() bool {
	return n.Kind != NoticeNone && n.Kind != NoticeNoResults
}

// Retryable reports whether the notice offers a retry action. Every visible
// notice does.
func (n Notice) Retryable() bool {
	return n.Kind != NoticeNone
}

type page struct {
	results  []entities.Book
	numFound int
	page     int
}

// Orchestrator holds the state of one home view.
type Orchestrator struct {
	searcher  openlibrary.Searcher
	snapshots SnapshotStore
	pageSize  int
	logger    *zap.Logger

	mu       sync.Mutex
	seq      uint64
	query    string
	filters  entities.Filters
	results  []entities.Book
	page     int
	numFound int
	state    State
	notice   Notice
	lastGood page
	selected *entities.Book
}

// Options configures an Orchestrator.
type Options struct {
	Searcher  openlibrary.Searcher
	Snapshots SnapshotStore
	PageSize  int
	Logger    *zap.Logger
}

func NewOrchestrator(opts Options) *Orchestrator {
	if opts.Snapshots == nil {
		opts.Snapshots = NewMemorySnapshots()
	}
	if opts.PageSize < 1 {
		opts.PageSize = openlibrary.DefaultLimit
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Orchestrator{
		searcher:  opts.Searcher,
		snapshots: opts.Snapshots,
		pageSize:  opts.PageSize,
		logger:    opts.Logger,
		results:   []entities.Book{},
		page:      1,
		state:     StateIdle,
	}
}

// SetQuery updates the query text without searching.
func (o *Orchestrator) SetQuery(q string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.query = q
}

// SetFilters replaces the filters and, when the query is not blank, starts a
// first-page search.
func (o *Orchestrator) SetFilters(ctx context.Context, f entities.Filters) View {
	o.mu.Lock()
	o.filters = f
	blank := strings.TrimSpace(o.query) == ""
	o.mu.Unlock()

	if blank {
		return o.View()
	}
	return o.Search(ctx, 1, false)
}

// SetForm replaces query and filters without searching.
func (o *Orchestrator) SetForm(form Form) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.query = form.Query
	o.filters = form.Filters()
}

// Submit applies the form and runs a first-page search.
func (o *Orchestrator) Submit(ctx context.Context, form Form) View {
	o.SetForm(form)
	return o.Search(ctx, 1, false)
}

// Clear resets the form fields. Results stay on screen and no search runs.
func (o *Orchestrator) Clear() View {
	o.SetForm(ClearedForm())
	return o.View()
}

// Search runs the search for the current query and filters at pageNum.
// manualRetry marks an explicit retry: it keeps the saved snapshot and
// disables the fallback to the last good page.
func (o *Orchestrator) Search(ctx context.Context, pageNum int, manualRetry bool) View {
	if pageNum < 1 {
		pageNum = 1
	}

	o.mu.Lock()
	query := strings.TrimSpace(o.query)
	if query == "" {
		o.state = StateErrored
		o.notice = newNotice(NoticeBlankQuery)
		o.results = []entities.Book{}
		v := o.viewLocked()
		o.mu.Unlock()
		return v
	}
	filters := o.filters
	o.seq++
	seq := o.seq
	o.state = StateSearching
	o.notice = Notice{}
	o.mu.Unlock()

	if pageNum == 1 && !manualRetry {
		if err := o.snapshots.Clear(ctx); err != nil {
			o.logger.Warn("Failed to clear search snapshot", zap.Error(err))
		}
	}

	res, err := o.searcher.Search(ctx, openlibrary.Query{
		Q:        query,
		Author:   filters.Author,
		Year:     filters.Year,
		Language: filters.Language,
		Page:     pageNum,
		Limit:    o.pageSize,
	})

	o.mu.Lock()
	defer o.mu.Unlock()

	if seq != o.seq {
		o.logger.Debug("Dropping superseded search response",
			zap.Uint64("seq", seq), zap.Uint64("latest", o.seq))
		return o.viewLocked()
	}

	if err != nil {
		o.logger.Warn("Search failed", zap.String("query", query), zap.Int("page", pageNum), zap.Error(err))
		o.applyFailureLocked(manualRetry)
	} else {
		o.applyResultLocked(pageNum, filters, res)
	}
	return o.viewLocked()
}

func (o *Orchestrator) applyResultLocked(pageNum int, filters entities.Filters, res openlibrary.Result) {
	items := FilterByLanguage(res.Items, filters.Language)

	if len(items) == 0 {
		o.results = []entities.Book{}
		o.numFound = res.TotalCount
		if res.TotalCount > 0 {
			o.state = StateErrored
			o.notice = newNotice(NoticePartialPage)
		} else {
			o.state = StateEmpty
			o.notice = newNotice(NoticeNoResults)
		}
		return
	}

	o.results = items
	o.numFound = res.TotalCount
	o.page = pageNum
	o.state = StateReady
	o.notice = Notice{}
	o.lastGood = page{results: items, numFound: res.TotalCount, page: pageNum}
}

func (o *Orchestrator) applyFailureLocked(manualRetry bool) {
	if len(o.lastGood.results) > 0 && !manualRetry {
		o.results = o.lastGood.results
		o.numFound = o.lastGood.numFound
		o.page = o.lastGood.page
		o.state = StateReady
		o.notice = newNotice(NoticeStaleFallback)
		return
	}
	o.results = []entities.Book{}
	o.state = StateErrored
	o.notice = newNotice(NoticeFailed)
}

// Retry re-runs the search behind the current notice as a manual retry:
// page one after "no results", the current page otherwise.
func (o *Orchestrator) Retry(ctx context.Context) View {
	o.mu.Lock()
	p := o.page
	if o.state == StateEmpty {
		p = 1
	}
	o.mu.Unlock()

	return o.Search(ctx, p, true)
}

// NextPage searches the following page. At the last page nothing happens.
func (o *Orchestrator) NextPage(ctx context.Context) View {
	o.mu.Lock()
	v := o.viewLocked()
	o.mu.Unlock()

	if !v.HasNext {
		return v
	}
	return o.Search(ctx, v.Page+1, false)
}

// PrevPage searches the preceding page. At the first page nothing happens.
func (o *Orchestrator) PrevPage(ctx context.Context) View {
	o.mu.Lock()
	v := o.viewLocked()
	o.mu.Unlock()

	if !v.HasPrev {
		return v
	}
	return o.Search(ctx, v.Page-1, false)
}

// OpenDetails saves the current search state and selects the result with
// the given id. It returns false when no current result has that id.
func (o *Orchestrator) OpenDetails(ctx context.Context, id string) (entities.Book, bool, error) {
	o.mu.Lock()
	var found *entities.Book
	for i := range o.results {
		if o.results[i].ID() == id {
			b := o.results[i]
			found = &b
			break
		}
	}
	if found == nil {
		o.mu.Unlock()
		return entities.Book{}, false, nil
	}
	snapshot := o.snapshotLocked()
	o.selected = found
	o.mu.Unlock()

	if err := o.snapshots.Save(ctx, snapshot); err != nil {
		return *found, true, err
	}
	return *found, true, nil
}

// CloseDetails deselects the open book and restores the saved search state,
// overwriting whatever changed while the details were shown.
func (o *Orchestrator) CloseDetails(ctx context.Context) View {
	o.mu.Lock()
	o.selected = nil
	o.mu.Unlock()

	o.Restore(ctx)
	return o.View()
}

// Restore loads the saved search state if there is one. It reports whether
// anything was restored.
func (o *Orchestrator) Restore(ctx context.Context) bool {
	saved, ok := o.snapshots.Load(ctx)
	if !ok {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.query = saved.Query
	o.filters = saved.Filters
	o.results = cloneBooks(saved.Results)
	o.page = saved.Page
	o.numFound = saved.NumFound
	if o.state == StateIdle && len(o.results) > 0 {
		o.state = StateReady
	}
	return true
}

// Snapshot returns the fields saved when details are opened.
func (o *Orchestrator) Snapshot() entities.SearchState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() entities.SearchState {
	return entities.SearchState{
		Query:    o.query,
		Filters:  o.filters,
		Results:  cloneBooks(o.results),
		Page:     o.page,
		NumFound: o.numFound,
	}
}

// FilterByLanguage keeps books with a language code containing lang,
// ignoring case. Books without language codes are kept. An empty lang
// keeps everything.
func FilterByLanguage(books []entities.Book, lang string) []entities.Book {
	if lang == "" {
		return books
	}
	want := strings.ToLower(lang)

	kept := make([]entities.Book, 0, len(books))
	for _, b := range books {
		if !b.HasLanguages() {
			kept = append(kept, b)
			continue
		}
		for _, code := range b.Languages {
			if strings.Contains(strings.ToLower(code), want) {
				kept = append(kept, b)
				break
			}
		}
	}
	return kept
}
