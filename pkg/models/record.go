package models

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UnknownVendor is the vendor reported when no vendor rule matches.
const UnknownVendor = "Unknown Vendor"

// DefaultAmount is the amount reported when no amount rule matches.
const DefaultAmount = 0.0

// Category is a spending category label.
type Category string

const (
	Groceries            Category = "Groceries"
	UtilitiesElectricity Category = "Utilities (Electricity)"
	UtilitiesInternet    Category = "Utilities (Internet)"
	UtilitiesWater       Category = "Utilities (Water)"
	Dining               Category = "Dining"
	Transportation       Category = "Transportation"
)

// Categories lists every label a record can carry.
var Categories = []Category{
	Groceries,
	UtilitiesElectricity,
	UtilitiesInternet,
	UtilitiesWater,
	Dining,
	Transportation,
}

// Record holds the fields inferred from one document's text. All four keys
// are always present; TransactionDate and Category are nil when unresolved.
type Record struct {
	Vendor          string    `json:"vendor" yaml:"vendor"`
	TransactionDate *Date     `json:"transaction_date" yaml:"transaction_date"`
	Amount          float64   `json:"amount" yaml:"amount"`
	Category        *Category `json:"category" yaml:"category"`
}

// NewRecord returns a record holding only the defaults.
func NewRecord() Record {
	return Record{
		Vendor: UnknownVendor,
		Amount: DefaultAmount,
	}
}

// HasVendor reports whether the vendor differs from the sentinel.
func (r Record) HasVendor() bool {
	return r.Vendor != UnknownVendor
}

// DateString returns the date as YYYY-MM-DD, or "" when unset.
func (r Record) DateString() string {
	if r.TransactionDate == nil {
		return ""
	}
	return r.TransactionDate.String()
}

// CategoryString returns the category label, or "" when unset.
func (r Record) CategoryString() string {
	if r.Category == nil {
		return ""
	}
	return string(*r.Category)
}

// Fingerprint creates a short stable ID from the four fields.
func (r Record) Fingerprint() string {
	input := fmt.Sprintf("%s|%s|%.2f|%s",
		strings.ToLower(strings.TrimSpace(r.Vendor)),
		r.DateString(),
		r.Amount,
		r.CategoryString())

	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash)[:8]
}

var (
	ErrUnknownVendor     = errors.New("vendor not recognised")
	ErrMissingDate       = errors.New("transaction date not found")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
)

// Validate applies the stricter rules a stored receipt must satisfy. The
// inference itself never calls it.
func (r Record) Validate() error {
	var errs []error
	if !r.HasVendor() || strings.TrimSpace(r.Vendor) == "" {
		errs = append(errs, ErrUnknownVendor)
	}
	if r.TransactionDate == nil {
		errs = append(errs, ErrMissingDate)
	}
	if r.Amount <= 0 {
		errs = append(errs, ErrNonPositiveAmount)
	}
	return errors.Join(errs...)
}

// Date is a calendar date without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// NewDate drops the clock part of t.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}
