// Package controller implements the client-side state machines the web app
// repeats on every page: a paginated, filtered resource list kept in sync
// with create/edit/delete flows, a draft form, and a delete confirmation.
// One generic List replaces the per-entity copies; each entity contributes
// only a Resource descriptor.
//
// A List is owned by a single event loop (the bubbletea Update loop or a
// one-shot command). Fetch jobs and mutations run on goroutines but touch
// only their own snapshot; results re-enter the loop and are committed via
// Apply, which discards anything but the latest request.
package controller

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"fleetdesk/internal/api"
	"fleetdesk/internal/models"
)

// Resource describes one server-owned collection. Pages become these
// descriptors instead of reimplementing the fetch loop.
type Resource struct {
	// Name is the plural, human-facing name ("journeys").
	Name string
	// Path is the list endpoint relative to the API origin ("api/drives").
	Path string
	// FilterKeys are the entity-specific query parameters the endpoint
	// accepts beyond page/limit/search/sortBy/sortOrder.
	FilterKeys []string
	// DefaultSortBy / DefaultSortOrder seed the initial sort.
	DefaultSortBy    string
	DefaultSortOrder string
}

// State is the visible list state. Items are replaced wholesale on every
// successful fetch and never reordered client-side.
type State[T any] struct {
	Items   []T
	Page    int
	Limit   int
	Total   int
	Pages   int
	Filters map[string]string
	Search  string
	SortBy  string
	SortOrder string
	Loading bool
	Err     string
}

// List is the generic resource list controller.
type List[T any] struct {
	client *api.Client
	res    Resource

	state State[T]
	seq   uint64
	busy  map[string]bool
}

// NewList builds a controller for the given resource with an empty page-1
// state.
func NewList[T any](client *api.Client, res Resource) *List[T] {
	order := res.DefaultSortOrder
	if order == "" {
		order = "desc"
	}
	return &List[T]{
		client: client,
		res:    res,
		busy:   make(map[string]bool),
		state: State[T]{
			Page:      1,
			Limit:     10,
			Filters:   make(map[string]string),
			SortBy:    res.DefaultSortBy,
			SortOrder: order,
		},
	}
}

// Resource returns the descriptor this list was built from.
func (l *List[T]) Resource() Resource { return l.res }

// State returns the current state. The Items slice is shared; callers
// render from it but never mutate it.
func (l *List[T]) State() State[T] { return l.state }

// Fetch is a snapshot of one list request, tagged with the sequence number
// that was current when it was issued.
type Fetch[T any] struct {
	Seq    uint64
	path   string
	client *api.Client
}

// Result carries a fetch outcome back into the owning loop.
type Result[T any] struct {
	Seq        uint64
	Data       []T
	Pagination models.Pagination
	Err        error
}

// StartFetch marks the list loading, bumps the request sequence, and
// returns a job capturing the current page/filters/sort. Issuing a new
// fetch logically cancels any earlier one: Apply ignores stale sequences.
func (l *List[T]) StartFetch() Fetch[T] {
	l.seq++
	l.state.Loading = true

	q := url.Values{}
	q.Set("page", strconv.Itoa(l.state.Page))
	q.Set("limit", strconv.Itoa(l.state.Limit))
	if l.state.Search != "" {
		q.Set("search", l.state.Search)
	}
	for _, key := range l.res.FilterKeys {
		if v := l.state.Filters[key]; v != "" {
			q.Set(key, v)
		}
	}
	if l.state.SortBy != "" {
		q.Set("sortBy", l.state.SortBy)
		q.Set("sortOrder", l.state.SortOrder)
	}

	return Fetch[T]{
		Seq:    l.seq,
		path:   l.res.Path + "?" + q.Encode(),
		client: l.client,
	}
}

// Do performs the round-trip. Safe to call from a goroutine: it reads only
// the snapshot taken by StartFetch.
func (f Fetch[T]) Do(ctx context.Context) Result[T] {
	var list models.List[T]
	if err := f.client.Do(ctx, http.MethodGet, f.path, nil, &list); err != nil {
		return Result[T]{Seq: f.Seq, Err: err}
	}
	return Result[T]{Seq: f.Seq, Data: list.Data, Pagination: list.Pagination}
}

// Apply commits a fetch result. It returns false for stale results (a newer
// fetch was issued since), which must be dropped so an out-of-order reply
// never overwrites newer state. On success items and pagination are
// replaced together; on failure the previous items stay visible and only
// the error message changes. Loading clears in every case.
func (l *List[T]) Apply(r Result[T]) bool {
	if r.Seq != l.seq {
		return false
	}
	l.state.Loading = false

	if r.Err != nil {
		l.state.Err = errorMessage(r.Err)
		return true
	}

	l.state.Err = ""
	l.state.Items = r.Data
	l.state.Page = r.Pagination.Page
	l.state.Limit = r.Pagination.Limit
	l.state.Total = r.Pagination.Total
	l.state.Pages = r.Pagination.Pages
	// Guard against a server echoing a page beyond the shrunken result set.
	if l.state.Pages >= 1 && l.state.Page > l.state.Pages {
		l.state.Page = l.state.Pages
	}
	return true
}

// SetFilter updates one filter and resets to page 1: a narrower result set
// must never leave the user stranded on a page that no longer exists.
func (l *List[T]) SetFilter(key, value string) {
	l.state.Filters[key] = value
	l.state.Page = 1
}

// SetSearch updates the free-text search, resetting to page 1.
func (l *List[T]) SetSearch(q string) {
	l.state.Search = q
	l.state.Page = 1
}

// SetSort updates the sort order, resetting to page 1.
func (l *List[T]) SetSort(by, order string) {
	l.state.SortBy = by
	l.state.SortOrder = order
	l.state.Page = 1
}

// SetPage moves to the given page. Out-of-range targets are a no-op and
// return false.
func (l *List[T]) SetPage(n int) bool {
	if n < 1 || (l.state.Pages >= 1 && n > l.state.Pages) || n == l.state.Page {
		return false
	}
	l.state.Page = n
	return true
}

// Create posts a new record. The caller refreshes with the current
// page/filters/sort afterwards so the user's context is preserved.
func (l *List[T]) Create(ctx context.Context, payload map[string]any) error {
	return l.client.Do(ctx, http.MethodPost, l.res.Path, payload, nil)
}

// Update puts changed values for one record.
func (l *List[T]) Update(ctx context.Context, id string, payload map[string]any) error {
	return l.client.Do(ctx, http.MethodPut, l.res.Path+"/"+id, payload, nil)
}

// Remove deletes one record.
func (l *List[T]) Remove(ctx context.Context, id string) error {
	return l.client.Do(ctx, http.MethodDelete, l.res.Path+"/"+id, nil, nil)
}

// Get fetches one record's detail.
func (l *List[T]) Get(ctx context.Context, id string) (T, error) {
	var detail models.Detail[T]
	err := l.client.Do(ctx, http.MethodGet, l.res.Path+"/"+id, nil, &detail)
	return detail.Data, err
}

// PageAfterRemoval adjusts the page before the post-delete refresh:
// removing the only item on the last page (of several) rolls back one page
// so the refresh never requests a page beyond the new count.
func (l *List[T]) PageAfterRemoval() {
	if len(l.state.Items) == 1 && l.state.Page > 1 && l.state.Page == l.state.Pages {
		l.state.Page--
	}
}

// MarkBusy reserves a per-record action slot. It returns false when the
// record is already busy, making a double-triggered delete or complete a
// no-op. Unrelated records stay interactive.
func (l *List[T]) MarkBusy(id string) bool {
	if l.busy[id] {
		return false
	}
	l.busy[id] = true
	return true
}

// ClearBusy releases the record's action slot.
func (l *List[T]) ClearBusy(id string) { delete(l.busy, id) }

// IsBusy reports whether the record has an action in flight.
func (l *List[T]) IsBusy(id string) bool { return l.busy[id] }

// SetError sets the list-level error banner directly. Used for mutation
// failures that are not field-scoped.
func (l *List[T]) SetError(err error) {
	l.state.Err = errorMessage(err)
}

// ClearError dismisses the error banner.
func (l *List[T]) ClearError() { l.state.Err = "" }

// errorMessage renders the taxonomy into banner text.
func errorMessage(err error) string {
	var conflict *api.ConflictError
	var netErr *api.NetworkError
	switch {
	case errors.Is(err, api.ErrAuthExpired):
		return "Session expired. Please log in again."
	case errors.Is(err, api.ErrNotFound):
		return "Record no longer exists. Refreshing."
	case errors.Is(err, api.ErrForbidden):
		return "You do not have permission for that."
	case errors.As(err, &conflict):
		return conflict.Message
	case errors.As(err, &netErr):
		return "Connection problem. Check the network and retry."
	default:
		return err.Error()
	}
}
