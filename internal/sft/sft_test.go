package sft

import (
	"errors"
	"strings"
	"testing"

	"forecourt/internal/core"
)

const sampleFile = `# register 1 close 2026-03-01
FUEL.VOL,1250.42
FUEL.AMT,4380.17
MDSE.AMT,980.55
LOTTO.SALE,310.00
LOTTO.PAY,145.50
TAX.AMT,62.01
TEND.CARD,3900.00
TEND.CASH,1978.23

REG.UNKNOWN,12.00
`

func TestParse(t *testing.T) {
	totals, err := Parse(strings.NewReader(sampleFile))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if totals.FuelGallons != 1250.42 {
		t.Fatalf("fuel gallons = %v", totals.FuelGallons)
	}
	if totals.FuelRevenue.Cents != 438017 {
		t.Fatalf("fuel revenue = %d", totals.FuelRevenue.Cents)
	}
	if totals.LotteryPaid.Cents != 14550 {
		t.Fatalf("lottery paid = %d", totals.LotteryPaid.Cents)
	}
	if totals.CashTotal.Cents != 197823 {
		t.Fatalf("cash total = %d", totals.CashTotal.Cents)
	}
}

func TestParseZeroRegister(t *testing.T) {
	totals, err := Parse(strings.NewReader("LOTTO.PAY,0.00\nTEND.CASH,15.00\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if totals.LotteryPaid.Cents != 0 || totals.CashTotal.Cents != 1500 {
		t.Fatalf("totals = %+v", totals)
	}
}

func TestParseRepeatedCodeAccumulates(t *testing.T) {
	totals, err := Parse(strings.NewReader("TEND.CASH,10.00\nTEND.CASH,5.50\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if totals.CashTotal.Cents != 1550 {
		t.Fatalf("cash total = %d", totals.CashTotal.Cents)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{name: "missing separator", input: "TEND.CASH 10.00\n", line: 1},
		{name: "bad amount", input: "# header\nTAX.AMT,12.x\n", line: 2},
		{name: "negative volume", input: "FUEL.VOL,-3\n", line: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error = %v, want ParseError", err)
			}
			if perr.Line != tt.line {
				t.Fatalf("line = %d, want %d", perr.Line, tt.line)
			}
		})
	}
}

func TestAddAndSale(t *testing.T) {
	a := Totals{FuelGallons: 100, CashTotal: core.Money{Cents: 1000}}
	b := Totals{FuelGallons: 50, CashTotal: core.Money{Cents: 250}, Tax: core.Money{Cents: 99}}

	sum := a.Add(b)
	if sum.FuelGallons != 150 || sum.CashTotal.Cents != 1250 || sum.Tax.Cents != 99 {
		t.Fatalf("sum = %+v", sum)
	}

	sale := sum.Sale(core.NewDate(2026, 3, 1))
	if sale.Status != core.SaleDraft {
		t.Fatalf("status = %s", sale.Status)
	}
	if sale.Date.String() != "2026-03-01" {
		t.Fatalf("date = %s", sale.Date)
	}
	if err := sale.Validate(); err != nil {
		t.Fatalf("draft does not validate: %v", err)
	}
}
