// Package stats turns already fetched collections into summary views:
// sector distribution, sector growth by year and the admin dashboard figures.
// The functions in this file are pure; Service does the fetching and caching.
package stats

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/core/interest"
	"github.com/startupsl/backend/core/round"
)

const (
	// UnspecifiedSector labels companies that did not report a sector.
	UnspecifiedSector = "Unspecified"
	// BucketSize is the number of sectors listed as trending and as emerging.
	BucketSize = 4
)

var (
	hundred = decimal.NewFromInt(100)
)

type (
	SectorCount struct {
		Sector string `json:"sector"`
		Count  int    `json:"count"`
	}

	Distribution struct {
		Sectors  []SectorCount `json:"sectors"`
		Trending []SectorCount `json:"trending"`
		Emerging []SectorCount `json:"emerging"`
	}

	// GrowthRow holds the number of companies created per sector during Year.
	// It is encoded as a flat object: {"year": "2024", "Fintech": 3, ...}.
	GrowthRow struct {
		Year   string
		Counts map[string]int
	}

	Metric struct {
		Total  int     `json:"total"`
		Change float64 `json:"change"`
	}

	EmployeesMetric struct {
		Min      int     `json:"min"`
		Max      int     `json:"max"`
		Midpoint int     `json:"midpoint"`
		Change   float64 `json:"change"`
	}

	Dashboard struct {
		Companies   Metric          `json:"companies"`
		Rounds      Metric          `json:"rounds"`
		Interests   Metric          `json:"interests"`
		Employees   EmployeesMetric `json:"employees"`
		GeneratedAt time.Time       `json:"generated_at"`
	}
)

// SectorDistribution counts companies per sector, most represented first (ties by name).
// Trending holds the first BucketSize sectors and Emerging the last BucketSize ones;
// with fewer than 2*BucketSize sectors both lists overlap.
func SectorDistribution(companies []company.Company) Distribution {
	counts := make(map[string]int)
	for _, c := range companies {
		sector := strings.TrimSpace(c.Sector)
		if sector == "" {
			sector = UnspecifiedSector
		}
		counts[sector]++
	}

	sectors := make([]SectorCount, 0, len(counts))
	for sector, n := range counts {
		sectors = append(sectors, SectorCount{Sector: sector, Count: n})
	}
	sort.Slice(sectors, func(i, j int) bool {
		if sectors[i].Count != sectors[j].Count {
			return sectors[i].Count > sectors[j].Count
		}
		return sectors[i].Sector < sectors[j].Sector
	})

	n := BucketSize
	if len(sectors) < n {
		n = len(sectors)
	}
	return Distribution{
		Sectors:  sectors,
		Trending: append([]SectorCount{}, sectors[:n]...),
		Emerging: append([]SectorCount{}, sectors[len(sectors)-n:]...),
	}
}

// SectorGrowthByYear counts the companies created per (UTC year, sector), one row per year in ascending order.
// Companies without a sector or creation time are left out; sectors without companies in a year are absent from its row.
// A sector named like the reserved year key is counted as UnspecifiedSector.
func SectorGrowthByYear(companies []company.Company) []GrowthRow {
	byYear := make(map[int]map[string]int)
	for _, c := range companies {
		sector := strings.TrimSpace(c.Sector)
		if sector == "" || c.CreatedAt.IsZero() {
			continue
		}
		if sector == core.ReservedSector {
			sector = UnspecifiedSector
		}
		year := c.CreatedAt.UTC().Year()
		if byYear[year] == nil {
			byYear[year] = make(map[string]int)
		}
		byYear[year][sector]++
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	rows := make([]GrowthRow, 0, len(years))
	for _, year := range years {
		rows = append(rows, GrowthRow{Year: strconv.Itoa(year), Counts: byYear[year]})
	}
	return rows
}

// DashboardStatistics computes the totals and month over month changes shown on the admin dashboard.
// Months are calendar months in UTC relative to now.
func DashboardStatistics(companies []company.Company, rounds []round.Round, interests []interest.Interest, now time.Time) Dashboard {
	currStart, nextStart := monthBounds(now)
	prevStart := currStart.AddDate(0, -1, 0)

	metric := func(total int, createdAt func(i int) time.Time) Metric {
		var prev, curr int
		for i := 0; i < total; i++ {
			switch t := createdAt(i).UTC(); {
			case inRange(t, currStart, nextStart):
				curr++
			case inRange(t, prevStart, currStart):
				prev++
			}
		}
		return Metric{Total: total, Change: PercentChange(prev, curr)}
	}

	var (
		emp                        EmployeesMetric
		lastMonthMin, lastMonthMax int
	)
	for _, c := range companies {
		min, max := ParseEmployeesRange(c.EmployeesRange)
		emp.Min += min
		emp.Max += max
		if inRange(c.CreatedAt.UTC(), prevStart, currStart) {
			lastMonthMin += min
			lastMonthMax += max
		}
	}
	emp.Midpoint = midpoint(emp.Min, emp.Max)
	emp.Change = PercentChange(midpoint(lastMonthMin, lastMonthMax), emp.Midpoint)

	return Dashboard{
		Companies:   metric(len(companies), func(i int) time.Time { return companies[i].CreatedAt }),
		Rounds:      metric(len(rounds), func(i int) time.Time { return rounds[i].CreatedAt }),
		Interests:   metric(len(interests), func(i int) time.Time { return interests[i].CreatedAt }),
		Employees:   emp,
		GeneratedAt: now.UTC(),
	}
}

// ParseEmployeesRange reads "N" (min = max = N) or "N-M". Anything else, "50+" included, yields (0, 0).
func ParseEmployeesRange(s string) (min, max int) {
	m := core.EmployeesRangeRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, 0
	}
	min, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0
	}
	if m[2] == "" {
		return min, min
	}
	max, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0
	}
	return min, max
}

// PercentChange returns (new - old) / old * 100 rounded to 2 decimals.
// When old is 0 it returns 100 if new is positive and 0 otherwise.
func PercentChange(old, new int) float64 {
	if old == 0 {
		if new > 0 {
			return 100
		}
		return 0
	}
	o := decimal.NewFromInt(int64(old))
	change, _ := decimal.NewFromInt(int64(new)).Sub(o).Div(o).Mul(hundred).Round(2).Float64()
	return change
}

func midpoint(min, max int) int {
	return int(math.Round(float64(min+max) / 2))
}

func monthBounds(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r GrowthRow) MarshalJSON() ([]byte, error) {
	sectors := make([]string, 0, len(r.Counts))
	for sector := range r.Counts {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	var buf bytes.Buffer
	buf.WriteString(`{"` + core.ReservedSector + `":`)
	year, _ := json.Marshal(r.Year)
	buf.Write(year)
	for _, sector := range sectors {
		if sector == core.ReservedSector {
			continue
		}
		key, _ := json.Marshal(sector)
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(r.Counts[sector]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *GrowthRow) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	r.Counts = make(map[string]int, len(fields))
	for key, raw := range fields {
		if key == core.ReservedSector {
			if err := json.Unmarshal(raw, &r.Year); err != nil {
				return err
			}
			continue
		}
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return err
		}
		r.Counts[key] = n
	}
	return nil
}
