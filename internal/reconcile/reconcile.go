// Package reconcile computes units sold from successive physical stock
// counts. Inventory is counted at shift start, so the figure for a day is
// inferred from the gap between what the previous period had on hand
// (plus restocks) and what the current count found:
//
//	sold = previousStart + previousAdded - currentStart
//
// This is deliberate: counts happen at shift start, never shift end, so
// the conventional start+in-end-out form would read values that were
// never measured. Negative results are surfaced as-is; they flag a
// data-entry inconsistency to the user and are not an error here.
package reconcile

import (
	"sort"

	"forecourt/internal/core"
)

// DefaultDays is how many day-over-day boundaries a report covers.
const DefaultDays = 7

// ItemSold is one item's inferred sales across one period boundary.
type ItemSold struct {
	ItemName string  `json:"item_name"`
	Sold     float64 `json:"sold"`
}

// DayReport carries the sold figures for one date, most recent first in
// the enclosing report.
type DayReport struct {
	Date  core.Date  `json:"date"`
	Items []ItemSold `json:"items"`
}

// counts is the per-item previous/current aggregation input.
type counts struct {
	start float64
	added float64
}

// Report computes per-day, per-item sold figures for the most recent
// min(distinctDates-1, days) dates in the snapshot history. Fewer than
// two distinct dates yields an empty report. categoryOrder is the
// user-maintained item order for the smoke family; items absent from it
// sort last. Lottery reports sort items alphabetically.
func Report(family core.StockFamily, snapshots []core.StockSnapshot, days int, categoryOrder []string) []DayReport {
	if days <= 0 {
		days = DefaultDays
	}

	byDate := map[string][]core.StockSnapshot{}
	for _, s := range snapshots {
		if s.Family != family {
			continue
		}
		key := s.Date.String()
		byDate[key] = append(byDate[key], s)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	if len(dates) < 2 {
		return []DayReport{}
	}
	// Most recent first; YYYY-MM-DD sorts lexicographically.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	boundaries := len(dates) - 1
	if boundaries > days {
		boundaries = days
	}

	report := make([]DayReport, 0, boundaries)
	for i := 0; i < boundaries; i++ {
		current := currentCounts(family, byDate[dates[i]])
		previous := previousCounts(family, byDate[dates[i+1]])

		names := map[string]struct{}{}
		for n := range current {
			names[n] = struct{}{}
		}
		for n := range previous {
			names[n] = struct{}{}
		}

		items := make([]ItemSold, 0, len(names))
		for n := range names {
			prev := previous[n] // zero counts when the item was not recorded
			curr := current[n]
			items = append(items, ItemSold{
				ItemName: n,
				Sold:     prev.start + prev.added - curr.start,
			})
		}
		orderItems(family, items, categoryOrder)

		date, err := core.ParseDate(dates[i])
		if err != nil {
			continue
		}
		report = append(report, DayReport{Date: date, Items: items})
	}
	return report
}

// previousCounts aggregates the prior date's records into per-item
// start/added. For lottery the boundary spans a full day of two shifts:
// the day opens on the Morning start count, and both shifts' restocks
// count toward what was available.
func previousCounts(family core.StockFamily, snaps []core.StockSnapshot) map[string]counts {
	out := map[string]counts{}
	for _, s := range snaps {
		c := out[s.ItemName]
		switch family {
		case core.FamilyLottery:
			if s.Shift == core.ShiftMorning {
				c.start = s.Start
			}
			c.added += s.Added
		default:
			c.start = s.Start
			c.added = s.Added
		}
		out[s.ItemName] = c
	}
	return out
}

// currentCounts extracts the current date's re-measured start counts.
// For lottery that is the Morning shift count; evening records on the
// current date belong to the next boundary.
func currentCounts(family core.StockFamily, snaps []core.StockSnapshot) map[string]counts {
	out := map[string]counts{}
	for _, s := range snaps {
		if family == core.FamilyLottery && s.Shift != core.ShiftMorning {
			continue
		}
		c := out[s.ItemName]
		c.start = s.Start
		out[s.ItemName] = c
	}
	return out
}

// orderItems sorts a date's items: smoke follows the user-maintained
// category order with unknown items alphabetical at the end; lottery is
// alphabetical throughout.
func orderItems(family core.StockFamily, items []ItemSold, categoryOrder []string) {
	if family != core.FamilySmoke || len(categoryOrder) == 0 {
		sort.Slice(items, func(i, j int) bool { return items[i].ItemName < items[j].ItemName })
		return
	}
	position := make(map[string]int, len(categoryOrder))
	for i, name := range categoryOrder {
		position[name] = i
	}
	rank := func(name string) int {
		if p, ok := position[name]; ok {
			return p
		}
		return len(categoryOrder)
	}
	sort.Slice(items, func(i, j int) bool {
		ri, rj := rank(items[i].ItemName), rank(items[j].ItemName)
		if ri != rj {
			return ri < rj
		}
		return items[i].ItemName < items[j].ItemName
	})
}
