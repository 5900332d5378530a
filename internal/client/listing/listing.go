// Package listing implements client-side search, sorting and pagination of
// lists fetched from the API.
package listing

import (
	"cmp"
	"slices"
	"strings"
)

// DefaultPageSize используется, если размер страницы не задан
const DefaultPageSize = 10

// Direction задает порядок сортировки
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Page is one page of items. Page numbers start at 1.
type Page[T any] struct {
	Items      []T
	Page       int
	Size       int
	TotalItems int
	TotalPages int
}

// HasNext reports whether a page follows this one
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// Search returns items where any of the fields returned by text contains
// query, ignoring case. An empty query returns all items.
func Search[T any](items []T, query string, text func(T) []string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}

	var out []T
	for _, item := range items {
		for _, field := range text(item) {
			if strings.Contains(strings.ToLower(field), query) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Filter returns items for which keep is true
func Filter[T any](items []T, keep func(T) bool) []T {
	var out []T
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// SortBy returns a sorted copy of items. Equal keys keep their original order.
func SortBy[T any, K cmp.Ordered](items []T, key func(T) K, dir Direction) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		c := cmp.Compare(key(a), key(b))
		if dir == Desc {
			return -c
		}
		return c
	})
	return out
}

// Paginate cuts page number page (1-based) out of items.
// size <= 0 means DefaultPageSize; pages out of range are empty.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}

	total := len(items)
	p := Page[T]{
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: (total + size - 1) / size,
	}

	if page < 1 || page > p.TotalPages {
		p.Items = []T{}
		return p
	}

	start := (page - 1) * size
	end := min(start+size, total)
	p.Items = items[start:end]
	return p
}

// Ellipsis marks a gap in PageNumbers output
const Ellipsis = 0

// PageNumbers returns at most seven page links around current, with
// Ellipsis standing for skipped ranges: 1 … 4 5 6 … 10.
func PageNumbers(current, total int) []int {
	if total <= 5 {
		out := make([]int, total)
		for i := range out {
			out[i] = i + 1
		}
		return out
	}

	switch {
	case current <= 3:
		return []int{1, 2, 3, 4, 5, Ellipsis, total}
	case current >= total-2:
		return []int{1, Ellipsis, total - 4, total - 3, total - 2, total - 1, total}
	default:
		return []int{1, Ellipsis, current - 1, current, current + 1, Ellipsis, total}
	}
}
