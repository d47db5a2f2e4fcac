package dummydb

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/core/interest"
	"github.com/startupsl/backend/core/investor"
	"github.com/startupsl/backend/core/notification"
	"github.com/startupsl/backend/core/round"
)

type (
	DB struct {
		company      *companyTable
		investor     *investorTable
		round        *roundTable
		interest     *interestTable
		notification *notificationTable
	}

	companyTable struct {
		sync.RWMutex
		table map[string]*company.Company
	}

	investorTable struct {
		sync.RWMutex
		table map[string]*investor.Investor
	}

	roundTable struct {
		sync.RWMutex
		table map[string]*round.Round
	}

	interestTable struct {
		sync.RWMutex
		table map[string]*interest.Interest
	}

	notificationTable struct {
		sync.RWMutex
		table map[string]*notification.Notification
	}
)

func Open() (*DB, error) {
	db := &DB{
		company:      &companyTable{table: make(map[string]*company.Company)},
		investor:     &investorTable{table: make(map[string]*investor.Investor)},
		round:        &roundTable{table: make(map[string]*round.Round)},
		interest:     &interestTable{table: make(map[string]*interest.Interest)},
		notification: &notificationTable{table: make(map[string]*notification.Notification)},
	}
	return db, nil
}

// containsFold reports whether any of fields contains search, case-insensitively.
func containsFold(search string, fields ...string) bool {
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// sortBy sorts n items with the orderings applied in turn, then by "_id"; cmp compares the i-th and j-th items
// on a stored field and returns -1, 0 or 1.
func sortBy(n int, swap func(i, j int), ords []core.DBOrdering, cmp func(i, j int, field string) int) {
	ords = append(ords[:len(ords):len(ords)], core.DBOrdering{Field: "_id", Ascending: true})
	sort.Stable(sorter{n: n, swap: swap, less: func(i, j int) bool {
		for _, ord := range ords {
			c := cmp(i, j, ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	}})
}

type sorter struct {
	n    int
	swap func(i, j int)
	less func(i, j int) bool
}

func (s sorter) Len() int           { return s.n }
func (s sorter) Swap(i, j int)      { s.swap(i, j) }
func (s sorter) Less(i, j int) bool { return s.less(i, j) }

func compareStrings(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareTimePtrs(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return compareTimes(*a, *b)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func hasFold(ss []string, s string) bool {
	for _, v := range ss {
		if equalFold(v, s) {
			return true
		}
	}
	return false
}
