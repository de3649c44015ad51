// Package listing implements the search, sort and page-window controller
// shared by the list endpoints.
package listing

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Direction of a sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort names a single sort column and its direction.
type Sort struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Toggle returns the sort that results from selecting column while current is
// active: the same column flips direction, a new column starts ascending.
func Toggle(current Sort, column string) Sort {
	if current.Column == column {
		if current.Direction == Asc {
			return Sort{Column: column, Direction: Desc}
		}
		return Sort{Column: column, Direction: Asc}
	}
	return Sort{Column: column, Direction: Asc}
}

// Fields describes a listable table: which API sort keys map to which
// columns, and which columns a search term is matched against.
type Fields struct {
	Sortable    map[string]string
	Searchable  []string
	DefaultSort Sort
}

// Query is a parsed list request.
type Query struct {
	Search   string
	Sort     Sort
	Page     int
	PageSize int
}

// Offset is the number of rows skipped before the page window. It never
// goes negative, however large Page is.
func (q Query) Offset() int {
	if q.Page <= 1 || q.PageSize <= 0 {
		return 0
	}
	page := min(q.Page, maxPage(q.PageSize))
	return (page - 1) * q.PageSize
}

// maxPage is the highest page whose offset still fits in an int.
func maxPage(pageSize int) int {
	return math.MaxInt/pageSize + 1
}

// Parse reads search, sort, order, page and pageSize from values. Unknown
// sort keys fall back to the default sort; out-of-range paging is clamped.
func Parse(values url.Values, fields Fields) Query {
	q := Query{
		Search:   strings.TrimSpace(values.Get("search")),
		Sort:     fields.DefaultSort,
		Page:     1,
		PageSize: DefaultPageSize,
	}

	if key := values.Get("sort"); key != "" {
		if _, ok := fields.Sortable[key]; ok {
			q.Sort = Sort{Column: key, Direction: Asc}
		}
	}
	switch Direction(strings.ToLower(values.Get("order"))) {
	case Asc:
		q.Sort.Direction = Asc
	case Desc:
		q.Sort.Direction = Desc
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if size, err := strconv.Atoi(values.Get("pageSize")); err == nil && size > 0 {
		q.PageSize = size
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	q.Page = min(q.Page, maxPage(q.PageSize))

	return q
}

// escapeLike escapes LIKE metacharacters so the term matches literally.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

// Filter adds the case-insensitive substring match across the searchable
// columns. An empty term leaves the builder unchanged.
func Filter(b sq.SelectBuilder, q Query, fields Fields) sq.SelectBuilder {
	if q.Search == "" || len(fields.Searchable) == 0 {
		return b
	}
	pattern := "%" + escapeLike(q.Search) + "%"
	or := sq.Or{}
	for _, column := range fields.Searchable {
		or = append(or, sq.ILike{column: pattern})
	}
	return b.Where(or)
}

// Window adds ORDER BY, LIMIT and OFFSET. A stable tiebreaker on id keeps
// page boundaries deterministic.
func Window(b sq.SelectBuilder, q Query, fields Fields) sq.SelectBuilder {
	column, ok := fields.Sortable[q.Sort.Column]
	if !ok {
		column = fields.Sortable[fields.DefaultSort.Column]
	}
	dir := "ASC"
	if q.Sort.Direction == Desc {
		dir = "DESC"
	}
	if column != "" {
		b = b.OrderBy(column+" "+dir+" NULLS LAST", "id "+dir)
	}
	return b.Limit(uint64(q.PageSize)).Offset(uint64(q.Offset()))
}

// Page is one window of a list result.
type Page[T any] struct {
	Items      []T    `json:"items"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
	Sort       Sort   `json:"sort"`
	Search     string `json:"search,omitempty"`
}

// NewPage wraps items with paging metadata. Items is never nil.
func NewPage[T any](items []T, total int64, q Query) *Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if q.PageSize > 0 {
		pages = int(math.Ceil(float64(total) / float64(q.PageSize)))
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: pages,
		Sort:       q.Sort,
		Search:     q.Search,
	}
}
