package core

import (
	"errors"
	"testing"
)

func TestStockSnapshotValidate(t *testing.T) {
	base := StockSnapshot{
		Family:   FamilyLottery,
		ItemName: "Lucky 7s",
		Date:     NewDate(2026, 8, 20),
		Shift:    ShiftMorning,
		Start:    30,
		Added:    10,
		End:      25,
	}

	t.Run("valid lottery snapshot", func(t *testing.T) {
		if err := base.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("lottery requires a shift", func(t *testing.T) {
		s := base
		s.Shift = ShiftNone
		if !errors.Is(s.Validate(), ErrInvalidShift) {
			t.Fatal("expected ErrInvalidShift")
		}
	})

	t.Run("smoke rejects a shift", func(t *testing.T) {
		s := base
		s.Family = FamilySmoke
		if !errors.Is(s.Validate(), ErrInvalidShift) {
			t.Fatal("expected ErrInvalidShift")
		}
		s.Shift = ShiftNone
		if err := s.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("negative quantity", func(t *testing.T) {
		s := base
		s.Added = -1
		if !errors.Is(s.Validate(), ErrNegativeQty) {
			t.Fatal("expected ErrNegativeQty")
		}
	})

	t.Run("empty item name", func(t *testing.T) {
		s := base
		s.ItemName = "  "
		if !errors.Is(s.Validate(), ErrEmptyName) {
			t.Fatal("expected ErrEmptyName")
		}
	})
}

func TestDailySaleValidate(t *testing.T) {
	sale := DailySale{
		Date:        NewDate(2026, 8, 20),
		FuelGallons: 1204.5,
		FuelRevenue: Money{Cents: 410003},
		InsideSales: Money{Cents: 98012},
		Tax:         Money{Cents: 31220},
		CardTotal:   Money{Cents: 350000},
		CashTotal:   Money{Cents: 189235},
		Status:      SaleFinal,
	}
	if err := sale.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sale.Status = "pending"
	if !errors.Is(sale.Validate(), ErrInvalidStatus) {
		t.Fatal("expected ErrInvalidStatus")
	}

	sale.Status = SaleDraft
	sale.FuelGallons = -3
	if !errors.Is(sale.Validate(), ErrNegativeQty) {
		t.Fatal("expected ErrNegativeQty")
	}
}

func TestShiftAssignmentValidate(t *testing.T) {
	a := ShiftAssignment{
		EmployeeID: 4,
		Date:       NewDate(2026, 8, 21),
		Shift:      ShiftMorning,
		StartTime:  "06:00",
		EndTime:    "14:00",
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a.EndTime = "05:00"
	if !errors.Is(a.Validate(), ErrInvalidTimespan) {
		t.Fatal("expected ErrInvalidTimespan")
	}

	a.EndTime = "25:00"
	if a.Validate() == nil {
		t.Fatal("expected error for out-of-range hour")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2026-08-28" {
		t.Fatalf("round trip mismatch: %s", d)
	}
	if _, err := ParseDate("28/08/2026"); !errors.Is(err, ErrInvalidDate) {
		t.Fatal("expected ErrInvalidDate")
	}
}

func TestInvoiceValidate(t *testing.T) {
	inv := Invoice{
		Vendor: "Core-Mark",
		Number: "CM-55821",
		Date:   NewDate(2026, 8, 1),
		Amount: Money{Cents: 284500},
		Status: InvoiceOpen,
	}
	if err := inv.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inv.DueDate = NewDate(2026, 7, 15)
	if !errors.Is(inv.Validate(), ErrInvalidTimespan) {
		t.Fatal("expected ErrInvalidTimespan for due date before invoice date")
	}
}
