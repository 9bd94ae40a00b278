package reconcile

import (
	"testing"

	"forecourt/internal/core"
)

func smokeSnap(item string, d core.Date, start, added, end float64) core.StockSnapshot {
	return core.StockSnapshot{
		Family:   core.FamilySmoke,
		ItemName: item,
		Date:     d,
		Shift:    core.ShiftNone,
		Start:    start,
		Added:    added,
		End:      end,
	}
}

func lotterySnap(item string, d core.Date, shift core.Shift, start, added float64) core.StockSnapshot {
	return core.StockSnapshot{
		Family:   core.FamilyLottery,
		ItemName: item,
		Date:     d,
		Shift:    shift,
		Start:    start,
		Added:    added,
	}
}

func TestSoldFormula(t *testing.T) {
	prev := core.NewDate(2026, 8, 20)
	curr := core.NewDate(2026, 8, 21)

	report := Report(core.FamilySmoke, []core.StockSnapshot{
		smokeSnap("Marlboro Red", prev, 10, 5, 0),
		smokeSnap("Marlboro Red", curr, 3, 0, 0),
	}, DefaultDays, nil)

	if len(report) != 1 {
		t.Fatalf("expected 1 boundary, got %d", len(report))
	}
	day := report[0]
	if day.Date.String() != "2026-08-21" {
		t.Fatalf("expected most recent date first, got %s", day.Date)
	}
	if len(day.Items) != 1 || day.Items[0].Sold != 12 {
		t.Fatalf("sold = %+v, want 10+5-3=12", day.Items)
	}
}

func TestMissingPreviousDataGoesNegative(t *testing.T) {
	report := Report(core.FamilySmoke, []core.StockSnapshot{
		smokeSnap("Camel Blue", core.NewDate(2026, 8, 20), 4, 0, 0),
		smokeSnap("Newport", core.NewDate(2026, 8, 21), 3, 0, 0),
	}, DefaultDays, nil)

	if len(report) != 1 {
		t.Fatalf("expected 1 boundary, got %d", len(report))
	}
	items := map[string]float64{}
	for _, it := range report[0].Items {
		items[it.ItemName] = it.Sold
	}
	// Item union: Newport has no previous record (0+0-3), Camel Blue has
	// no current record (4+0-0). Negative sold is not clamped.
	if items["Newport"] != -3 {
		t.Fatalf("Newport sold = %v, want -3", items["Newport"])
	}
	if items["Camel Blue"] != 4 {
		t.Fatalf("Camel Blue sold = %v, want 4", items["Camel Blue"])
	}
}

func TestFewerThanTwoDates(t *testing.T) {
	if got := Report(core.FamilySmoke, nil, DefaultDays, nil); len(got) != 0 {
		t.Fatalf("empty history must yield empty report, got %v", got)
	}
	one := []core.StockSnapshot{smokeSnap("Camel Blue", core.NewDate(2026, 8, 21), 4, 0, 0)}
	if got := Report(core.FamilySmoke, one, DefaultDays, nil); len(got) != 0 {
		t.Fatalf("single date must yield empty report, got %v", got)
	}
}

func TestLotterySpansBothShifts(t *testing.T) {
	prev := core.NewDate(2026, 8, 20)
	curr := core.NewDate(2026, 8, 21)

	report := Report(core.FamilyLottery, []core.StockSnapshot{
		lotterySnap("Lucky 7s", prev, core.ShiftMorning, 30, 10),
		lotterySnap("Lucky 7s", prev, core.ShiftEvening, 25, 20),
		lotterySnap("Lucky 7s", curr, core.ShiftMorning, 42, 0),
	}, DefaultDays, nil)

	if len(report) != 1 {
		t.Fatalf("expected 1 boundary, got %d", len(report))
	}
	// Previous = morning start 30 + morning added 10 + evening added 20;
	// the evening start count is a mid-day re-measure and does not open
	// the day. Current = morning start 42.
	if got := report[0].Items[0].Sold; got != 18 {
		t.Fatalf("sold = %v, want 30+10+20-42=18", got)
	}
}

func TestWindowLimitAndOrder(t *testing.T) {
	var snaps []core.StockSnapshot
	for day := 1; day <= 10; day++ {
		snaps = append(snaps, smokeSnap("Camel Blue", core.NewDate(2026, 8, day), float64(day), 0, 0))
	}

	report := Report(core.FamilySmoke, snaps, 7, nil)
	if len(report) != 7 {
		t.Fatalf("window = %d boundaries, want 7", len(report))
	}
	if report[0].Date.String() != "2026-08-10" {
		t.Fatalf("first entry = %s, want most recent date", report[0].Date)
	}
	for i := 1; i < len(report); i++ {
		if !report[i].Date.Before(report[i-1].Date.Time) {
			t.Fatalf("report not in descending date order at %d", i)
		}
	}
}

func TestSmokeCategoryOrder(t *testing.T) {
	prev := core.NewDate(2026, 8, 20)
	curr := core.NewDate(2026, 8, 21)
	snaps := []core.StockSnapshot{
		smokeSnap("Newport", prev, 5, 0, 0),
		smokeSnap("Camel Blue", prev, 5, 0, 0),
		smokeSnap("Zig-Zag", prev, 5, 0, 0),
		smokeSnap("Newport", curr, 1, 0, 0),
		smokeSnap("Camel Blue", curr, 1, 0, 0),
		smokeSnap("Zig-Zag", curr, 1, 0, 0),
	}

	report := Report(core.FamilySmoke, snaps, DefaultDays, []string{"Newport", "Camel Blue"})
	var got []string
	for _, it := range report[0].Items {
		got = append(got, it.ItemName)
	}
	want := []string{"Newport", "Camel Blue", "Zig-Zag"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestLotteryAlphabeticalOrder(t *testing.T) {
	prev := core.NewDate(2026, 8, 20)
	curr := core.NewDate(2026, 8, 21)
	snaps := []core.StockSnapshot{
		lotterySnap("Wild Cherry", prev, core.ShiftMorning, 10, 0),
		lotterySnap("Bingo Blast", prev, core.ShiftMorning, 10, 0),
		lotterySnap("Wild Cherry", curr, core.ShiftMorning, 2, 0),
		lotterySnap("Bingo Blast", curr, core.ShiftMorning, 2, 0),
	}

	report := Report(core.FamilyLottery, snaps, DefaultDays, nil)
	if report[0].Items[0].ItemName != "Bingo Blast" || report[0].Items[1].ItemName != "Wild Cherry" {
		t.Fatalf("lottery items must sort alphabetically, got %+v", report[0].Items)
	}
}
