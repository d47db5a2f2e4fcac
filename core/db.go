package core

import (
	"math"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

// Direction returns the sort direction as used by document stores (1 | -1).
func (ord DBOrdering) Direction() int {
	if ord.Ascending {
		return 1
	}
	return -1
}

// CleanOrderings drops the orderings whose field is not in `allowed` ({queryName: storedName})
// and maps the others to their stored names.
func CleanOrderings(ords []DBOrdering, allowed map[string]string) []DBOrdering {
	cleaned := make([]DBOrdering, 0, len(ords))
	for _, ord := range ords {
		if field, ok := allowed[strings.ToLower(ord.Field)]; ok {
			cleaned = append(cleaned, DBOrdering{Field: field, Ascending: ord.Ascending})
		}
	}
	return cleaned
}

type Pagination struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

func (p *Pagination) Clean() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	} else if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	// keeps Offset within int range
	if maxPage := math.MaxInt/p.PageSize + 1; p.Page > maxPage {
		p.Page = maxPage
	}
}

// Offset is the number of items before the page. It saturates at math.MaxInt.
func (p Pagination) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Paginate returns the page of `n` items described by p as [start, end) bounds.
func (p Pagination) Paginate(n int) (int, int) {
	if p.PageSize < 1 {
		return 0, n
	}
	start := p.Offset()
	if start > n {
		start = n
	}
	end := n
	if p.PageSize < n-start {
		end = start + p.PageSize
	}
	return start, end
}
