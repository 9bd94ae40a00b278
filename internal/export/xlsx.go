package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"forecourt/internal/core"
)

var salesHeader = []interface{}{
	"Date",
	"Fuel Gallons",
	"Fuel Revenue",
	"Inside Sales",
	"Lottery Sales",
	"Lottery Paid",
	"Tax",
	"Card",
	"Cash",
	"Status",
	"Notes",
}

// SalesWorkbook builds an xlsx workbook with one row per daily sale.
// The caller owns the returned file and must Close it.
func SalesWorkbook(sales []core.DailySale) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	if err := f.SetSheetRow(sheet, "A1", &salesHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, s := range sales {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("row %d cell: %w", row, err)
		}
		values := saleRow(s)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	return f, nil
}

func saleRow(s core.DailySale) []interface{} {
	return []interface{}{
		s.Date.String(),
		s.FuelGallons,
		s.FuelRevenue.Dollars(),
		s.InsideSales.Dollars(),
		s.LotterySales.Dollars(),
		s.LotteryPaid.Dollars(),
		s.Tax.Dollars(),
		s.CardTotal.Dollars(),
		s.CashTotal.Dollars(),
		string(s.Status),
		s.Notes,
	}
}
