// Package sft reads the register close files the point-of-sale system
// exports at end of day. A file is a sequence of "CODE,VALUE" lines;
// the codes we care about are mapped onto daily-sale fields, everything
// else is skipped. One business day may span several files (one per
// register), so totals are additive.
package sft

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"forecourt/internal/core"
)

// Register codes carried over from the POS close report layout.
const (
	CodeFuelGallons  = "FUEL.VOL"
	CodeFuelRevenue  = "FUEL.AMT"
	CodeInsideSales  = "MDSE.AMT"
	CodeLotterySales = "LOTTO.SALE"
	CodeLotteryPaid  = "LOTTO.PAY"
	CodeTax          = "TAX.AMT"
	CodeCardTotal    = "TEND.CARD"
	CodeCashTotal    = "TEND.CASH"
)

// Totals are the aggregated register values of one or more files.
type Totals struct {
	FuelGallons  float64
	FuelRevenue  core.Money
	InsideSales  core.Money
	LotterySales core.Money
	LotteryPaid  core.Money
	Tax          core.Money
	CardTotal    core.Money
	CashTotal    core.Money
}

// ParseError reports the line a file could not be read at. Parse errors
// are permanent; retrying the same file cannot succeed.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads one register close file. Blank lines and '#' comments are
// skipped; unknown codes are ignored so new registers on the POS side
// do not break imports.
func Parse(r io.Reader) (Totals, error) {
	var t Totals
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		code, value, ok := strings.Cut(text, ",")
		if !ok {
			return Totals{}, &ParseError{Line: line, Err: fmt.Errorf("malformed record %q", text)}
		}
		code = strings.TrimSpace(code)
		value = strings.TrimSpace(value)

		if code == CodeFuelGallons {
			gallons, err := strconv.ParseFloat(value, 64)
			if err != nil || gallons < 0 {
				return Totals{}, &ParseError{Line: line, Err: fmt.Errorf("bad volume %q", value)}
			}
			t.FuelGallons += gallons
			continue
		}

		target := t.moneyField(code)
		if target == nil {
			continue
		}
		cents, err := parseCents(value)
		if err != nil {
			return Totals{}, &ParseError{Line: line, Err: fmt.Errorf("bad amount %q for %s", value, code)}
		}
		target.Cents += cents
	}
	if err := scanner.Err(); err != nil {
		return Totals{}, fmt.Errorf("read close file: %w", err)
	}
	return t, nil
}

func (t *Totals) moneyField(code string) *core.Money {
	switch code {
	case CodeFuelRevenue:
		return &t.FuelRevenue
	case CodeInsideSales:
		return &t.InsideSales
	case CodeLotterySales:
		return &t.LotterySales
	case CodeLotteryPaid:
		return &t.LotteryPaid
	case CodeTax:
		return &t.Tax
	case CodeCardTotal:
		return &t.CardTotal
	case CodeCashTotal:
		return &t.CashTotal
	}
	return nil
}

// parseCents accepts register amounts, which unlike user input may
// legitimately be zero.
func parseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if isZeroAmount(s) {
		return 0, nil
	}
	return core.ParseDecimalToCents(s)
}

func isZeroAmount(s string) bool {
	if s == "" {
		return false
	}
	seen := false
	for i, r := range s {
		switch {
		case r == '0':
			seen = true
		case (r == '.' || r == ',') && i > 0:
		default:
			return false
		}
	}
	return seen
}

// Add merges another file's totals into t.
func (t Totals) Add(o Totals) Totals {
	t.FuelGallons += o.FuelGallons
	t.FuelRevenue.Cents += o.FuelRevenue.Cents
	t.InsideSales.Cents += o.InsideSales.Cents
	t.LotterySales.Cents += o.LotterySales.Cents
	t.LotteryPaid.Cents += o.LotteryPaid.Cents
	t.Tax.Cents += o.Tax.Cents
	t.CardTotal.Cents += o.CardTotal.Cents
	t.CashTotal.Cents += o.CashTotal.Cents
	return t
}

// Sale shapes the totals into a draft daily sale for the batch date.
func (t Totals) Sale(date core.Date) core.DailySale {
	return core.DailySale{
		Date:         date,
		FuelGallons:  t.FuelGallons,
		FuelRevenue:  t.FuelRevenue,
		InsideSales:  t.InsideSales,
		LotterySales: t.LotterySales,
		LotteryPaid:  t.LotteryPaid,
		Tax:          t.Tax,
		CardTotal:    t.CardTotal,
		CashTotal:    t.CashTotal,
		Status:       core.SaleDraft,
	}
}
