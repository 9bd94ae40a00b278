// Package listing implements the URL-synchronized query state shared by
// every paginated list view: page, page size, sort, free-text search and
// date-range filters, round-tripped through a query string so a shared
// link reproduces the same view.
package listing

import (
	"net/url"
	"strconv"

	"forecourt/internal/core"
)

// Recognized query-string keys. These are the wire contract with the
// browser frontend and must not change casually.
const (
	KeyPage          = "page"
	KeyPerPage       = "perPage"
	KeySortField     = "sortField"
	KeySortDirection = "sortDirection"
	KeySearch        = "search"
	KeyStartDate     = "startDate"
	KeyEndDate       = "endDate"
)

// ExtraKeys are the page-specific filter keys a list may carry on top of
// the shared set.
var ExtraKeys = []string{"status", "type", "vendor"}

// PerPageChoices is the enumerated set of allowed page sizes.
var PerPageChoices = []int{50, 100, 150, 200}

const (
	Ascending  = "asc"
	Descending = "desc"
)

// Defaults declares a page's configured query defaults.
type Defaults struct {
	PerPage       int
	SortField     string
	SortDirection string
}

// Query is the single source of truth for one list view's parameters.
type Query struct {
	Page          int
	PerPage       int
	SortField     string
	SortDirection string
	Search        string
	StartDate     core.Date
	EndDate       core.Date
	Filters       map[string]string // status/type/vendor etc., empty values omitted
}

func (d Defaults) normalized() Defaults {
	if !validPerPage(d.PerPage) {
		d.PerPage = PerPageChoices[0]
	}
	if d.SortDirection != Ascending && d.SortDirection != Descending {
		d.SortDirection = Descending
	}
	return d
}

func validPerPage(n int) bool {
	for _, c := range PerPageChoices {
		if n == c {
			return true
		}
	}
	return false
}

// ParseQuery reads a query string into a Query, applying the page's
// defaults for any missing or malformed key. Out-of-set perPage values
// fall back to the default rather than erroring.
func ParseQuery(values url.Values, d Defaults) Query {
	d = d.normalized()
	q := Query{
		Page:          1,
		PerPage:       d.PerPage,
		SortField:     d.SortField,
		SortDirection: d.SortDirection,
		Filters:       map[string]string{},
	}

	if v := values.Get(KeyPage); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p >= 1 {
			q.Page = p
		}
	}
	if v := values.Get(KeyPerPage); v != "" {
		if n, err := strconv.Atoi(v); err == nil && validPerPage(n) {
			q.PerPage = n
		}
	}
	if v := values.Get(KeySortField); v != "" {
		q.SortField = v
	}
	if v := values.Get(KeySortDirection); v == Ascending || v == Descending {
		q.SortDirection = v
	}
	q.Search = values.Get(KeySearch)
	if v := values.Get(KeyStartDate); v != "" {
		if date, err := core.ParseDate(v); err == nil {
			q.StartDate = date
		}
	}
	if v := values.Get(KeyEndDate); v != "" {
		if date, err := core.ParseDate(v); err == nil {
			q.EndDate = date
		}
	}
	for _, k := range ExtraKeys {
		if v := values.Get(k); v != "" {
			q.Filters[k] = v
		}
	}
	return q
}

// Values serializes the query back to a query string. Empty keys are
// dropped to keep URLs clean; page, perPage, sortField and sortDirection
// are always present.
func (q Query) Values() url.Values {
	values := url.Values{}
	values.Set(KeyPage, strconv.Itoa(q.Page))
	values.Set(KeyPerPage, strconv.Itoa(q.PerPage))
	if q.SortField != "" {
		values.Set(KeySortField, q.SortField)
	}
	values.Set(KeySortDirection, q.SortDirection)
	if q.Search != "" {
		values.Set(KeySearch, q.Search)
	}
	if !q.StartDate.IsZero() {
		values.Set(KeyStartDate, q.StartDate.String())
	}
	if !q.EndDate.IsZero() {
		values.Set(KeyEndDate, q.EndDate.String())
	}
	for _, k := range ExtraKeys {
		if v := q.Filters[k]; v != "" {
			values.Set(k, v)
		}
	}
	return values
}

// WithPage returns the query moved to page p, clamped to [1, totalPages].
// An out-of-range p leaves the page unchanged, mirroring the page-change
// guard every list screen applies.
func (q Query) WithPage(p, totalPages int) Query {
	if p < 1 || (totalPages > 0 && p > totalPages) {
		return q
	}
	q.Page = p
	return q
}

// WithSearch sets the search term and resets to page 1.
func (q Query) WithSearch(term string) Query {
	q.Search = term
	q.Page = 1
	return q
}

// WithSort sets the sort field/direction and resets to page 1.
func (q Query) WithSort(field, direction string) Query {
	q.SortField = field
	if direction == Ascending || direction == Descending {
		q.SortDirection = direction
	}
	q.Page = 1
	return q
}

// WithPerPage sets the page size and resets to page 1. Values outside
// PerPageChoices are ignored.
func (q Query) WithPerPage(n int) Query {
	if validPerPage(n) {
		q.PerPage = n
	}
	q.Page = 1
	return q
}

// WithDateRange sets both date bounds (inclusive) and resets to page 1.
// A zero date clears that bound.
func (q Query) WithDateRange(start, end core.Date) Query {
	q.StartDate = start
	q.EndDate = end
	q.Page = 1
	return q
}

// WithFilter sets a page-specific filter and resets to page 1. An empty
// value removes the key.
func (q Query) WithFilter(key, value string) Query {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	if value == "" {
		delete(filters, key)
	} else {
		filters[key] = value
	}
	q.Filters = filters
	q.Page = 1
	return q
}

// Clear resets to the page's configured defaults, dropping search, date
// and extra filters.
func (q Query) Clear(d Defaults) Query {
	d = d.normalized()
	return Query{
		Page:          1,
		PerPage:       d.PerPage,
		SortField:     d.SortField,
		SortDirection: d.SortDirection,
		Filters:       map[string]string{},
	}
}

// Page is the list-response envelope every resource endpoint returns.
// Every fetch is a full replace on the client; there is no incremental
// merge, so the envelope always carries the complete page.
type Page[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	Total       int64 `json:"total"`
}

// NewPage builds the envelope from a full result page plus the total row
// count. A request past the last page is clamped onto the last page so
// the client never lands on an empty out-of-range view.
func NewPage[T any](data []T, q Query, total int64) Page[T] {
	last := int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	if last < 1 {
		last = 1
	}
	current := q.Page
	if current > last {
		current = last
	}
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, CurrentPage: current, LastPage: last, Total: total}
}

// LastPageFor computes the page count for a total under the query's page
// size, never less than 1.
func LastPageFor(total int64, perPage int) int {
	if perPage <= 0 {
		perPage = PerPageChoices[0]
	}
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	return last
}
