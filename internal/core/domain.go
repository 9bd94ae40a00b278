package core

import (
	"errors"
	"strings"
	"time"
)

const (
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
	ShiftNone    Shift = ""
)

const (
	FamilyLottery StockFamily = "lottery"
	FamilySmoke   StockFamily = "smoke"
)

const (
	SaleDraft SaleStatus = "draft"
	SaleFinal SaleStatus = "final"
)

const (
	InvoiceOpen InvoiceStatus = "open"
	InvoicePaid InvoiceStatus = "paid"
	InvoiceVoid InvoiceStatus = "void"
)

const (
	EquityContribution EquityKind = "contribution"
	EquityDraw         EquityKind = "draw"
)

type (
	Shift         string
	StockFamily   string
	SaleStatus    string
	InvoiceStatus string
	EquityKind    string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// DailySale is one business day's closing record. Drafts are produced
	// by the SFT import worker and finalized by a manager.
	DailySale struct {
		ID           int64      `json:"id"`
		Date         Date       `json:"date"`
		FuelGallons  float64    `json:"fuel_gallons"`
		FuelRevenue  Money      `json:"fuel_revenue_cents"`
		InsideSales  Money      `json:"inside_sales_cents"`
		LotterySales Money      `json:"lottery_sales_cents"`
		LotteryPaid  Money      `json:"lottery_paid_cents"`
		Tax          Money      `json:"tax_cents"`
		CardTotal    Money      `json:"card_total_cents"`
		CashTotal    Money      `json:"cash_total_cents"`
		Notes        string     `json:"notes"`
		Status       SaleStatus `json:"status"`
		CreatedAt    time.Time  `json:"created_at"`
	}

	FuelDelivery struct {
		ID       int64   `json:"id"`
		Date     Date    `json:"date"`
		Grade    string  `json:"grade"`
		Gallons  float64 `json:"gallons"`
		UnitCost Money   `json:"unit_cost_cents"`
		Vendor   string  `json:"vendor"`
	}

	// StockSnapshot records one item's counted quantities for one
	// reporting period. Quantities are measured at shift start, which is
	// why the reconciliation formula reads start counts, not end counts.
	StockSnapshot struct {
		ID       int64       `json:"id"`
		Family   StockFamily `json:"family"`
		ItemName string      `json:"item_name"`
		Date     Date        `json:"date"`
		Shift    Shift       `json:"shift"`
		Start    float64     `json:"start"`
		Added    float64     `json:"added"`
		End      float64     `json:"end"`
	}

	// StockCategory carries the user-maintained display order for smoke
	// items. Position is 0-based; items without a category sort last.
	StockCategory struct {
		ID       int64       `json:"id"`
		Family   StockFamily `json:"family"`
		Name     string      `json:"name"`
		Position int         `json:"position"`
	}

	Employee struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Role     string `json:"role"`
		PayRate  Money  `json:"pay_rate_cents"` // per hour
		Active   bool   `json:"active"`
		HireDate Date   `json:"hire_date"`
	}

	ShiftAssignment struct {
		ID         int64  `json:"id"`
		EmployeeID int64  `json:"employee_id"`
		Date       Date   `json:"date"`
		Shift      Shift  `json:"shift"`
		StartTime  string `json:"start_time"` // HH:MM
		EndTime    string `json:"end_time"`   // HH:MM
	}

	Loan struct {
		ID        int64  `json:"id"`
		Lender    string `json:"lender"`
		Principal Money  `json:"principal_cents"`
		Balance   Money  `json:"balance_cents"`
		RateBps   int    `json:"rate_bps"`
		Status    string `json:"status"`
	}

	BankAccount struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Bank    string `json:"bank"`
		Last4   string `json:"last4"`
		Balance Money  `json:"balance_cents"`
		Type    string `json:"type"`
	}

	EquityEntry struct {
		ID     int64      `json:"id"`
		Owner  string     `json:"owner"`
		Date   Date       `json:"date"`
		Amount Money      `json:"amount_cents"`
		Kind   EquityKind `json:"kind"`
	}

	Invoice struct {
		ID      int64         `json:"id"`
		Vendor  string        `json:"vendor"`
		Number  string        `json:"number"`
		Date    Date          `json:"date"`
		DueDate Date          `json:"due_date"`
		Amount  Money         `json:"amount_cents"`
		Status  InvoiceStatus `json:"status"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidShift    = errors.New("invalid shift")
	ErrInvalidFamily   = errors.New("invalid stock family")
	ErrEmptyName       = errors.New("empty name")
	ErrNegativeQty     = errors.New("quantity cannot be negative")
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateDate   = errors.New("a record for this date already exists")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrEmptyVendor     = errors.New("empty vendor")
	ErrInvalidTimespan = errors.New("end must not precede start")
)

// NewDate creates a Date at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (s Shift) Validate() error {
	switch s {
	case ShiftMorning, ShiftEvening, ShiftNone:
		return nil
	}
	return ErrInvalidShift
}

func (f StockFamily) Validate() error {
	switch f {
	case FamilyLottery, FamilySmoke:
		return nil
	}
	return ErrInvalidFamily
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (s DailySale) Validate() error {
	if err := s.Date.Validate(); err != nil {
		return err
	}
	if s.FuelGallons < 0 {
		return ErrNegativeQty
	}
	for _, m := range []Money{s.FuelRevenue, s.InsideSales, s.LotterySales, s.LotteryPaid, s.Tax, s.CardTotal, s.CashTotal} {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	if len(s.Notes) > 500 {
		return errors.New("notes too long (max 500 characters)")
	}
	switch s.Status {
	case SaleDraft, SaleFinal:
	default:
		return ErrInvalidStatus
	}
	return nil
}

func (f FuelDelivery) Validate() error {
	if err := f.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(f.Grade) == "" {
		return ErrEmptyName
	}
	if f.Gallons <= 0 {
		return ErrNegativeQty
	}
	if f.UnitCost.Cents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(f.Vendor) == "" {
		return ErrEmptyVendor
	}
	return nil
}

func (s StockSnapshot) Validate() error {
	if err := s.Family.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(s.ItemName) == "" {
		return ErrEmptyName
	}
	if len(s.ItemName) > 120 {
		return errors.New("item name too long (max 120 characters)")
	}
	if err := s.Date.Validate(); err != nil {
		return err
	}
	if err := s.Shift.Validate(); err != nil {
		return err
	}
	// Lottery counts twice a day, smoke once.
	if s.Family == FamilyLottery && s.Shift == ShiftNone {
		return ErrInvalidShift
	}
	if s.Family == FamilySmoke && s.Shift != ShiftNone {
		return ErrInvalidShift
	}
	if s.Start < 0 || s.Added < 0 || s.End < 0 {
		return ErrNegativeQty
	}
	return nil
}

func (c StockCategory) Validate() error {
	if err := c.Family.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Position < 0 {
		return errors.New("position cannot be negative")
	}
	return nil
}

func (e Employee) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if len(e.Name) > 120 {
		return errors.New("name too long (max 120 characters)")
	}
	if e.PayRate.Cents <= 0 {
		return ErrInvalidAmount
	}
	if err := e.HireDate.Validate(); err != nil {
		return err
	}
	return nil
}

func (a ShiftAssignment) Validate() error {
	if a.EmployeeID <= 0 {
		return errors.New("missing employee")
	}
	if err := a.Date.Validate(); err != nil {
		return err
	}
	if err := validateClock(a.StartTime); err != nil {
		return err
	}
	if err := validateClock(a.EndTime); err != nil {
		return err
	}
	if a.EndTime < a.StartTime {
		return ErrInvalidTimespan
	}
	return nil
}

func (l Loan) Validate() error {
	if strings.TrimSpace(l.Lender) == "" {
		return ErrEmptyName
	}
	if l.Principal.Cents <= 0 {
		return ErrInvalidAmount
	}
	if l.Balance.Cents < 0 {
		return ErrInvalidAmount
	}
	if l.RateBps < 0 || l.RateBps > 10000 {
		return errors.New("rate out of range")
	}
	return nil
}

func (a BankAccount) Validate() error {
	if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Bank) == "" {
		return ErrEmptyName
	}
	if len(a.Last4) != 4 {
		return errors.New("last4 must be exactly 4 digits")
	}
	for _, r := range a.Last4 {
		if r < '0' || r > '9' {
			return errors.New("last4 must be exactly 4 digits")
		}
	}
	return nil
}

func (e EquityEntry) Validate() error {
	if strings.TrimSpace(e.Owner) == "" {
		return ErrEmptyName
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	switch e.Kind {
	case EquityContribution, EquityDraw:
		return nil
	}
	return errors.New("invalid equity kind")
}

func (i Invoice) Validate() error {
	if strings.TrimSpace(i.Vendor) == "" {
		return ErrEmptyVendor
	}
	if strings.TrimSpace(i.Number) == "" {
		return errors.New("empty invoice number")
	}
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if !i.DueDate.IsZero() && i.DueDate.Before(i.Date.Time) {
		return ErrInvalidTimespan
	}
	if i.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	switch i.Status {
	case InvoiceOpen, InvoicePaid, InvoiceVoid:
		return nil
	}
	return ErrInvalidStatus
}

// validateClock checks a HH:MM wall-clock string.
func validateClock(s string) error {
	if len(s) != 5 || s[2] != ':' {
		return errors.New("time must be HH:MM")
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return errors.New("time must be HH:MM")
		}
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	if hh > 23 || mm > 59 {
		return errors.New("time must be HH:MM")
	}
	return nil
}
