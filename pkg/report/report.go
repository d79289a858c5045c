package report

import (
	"fmt"
	"io"

	"github.com/yurifrl/receiptr/pkg/models"
)

// Field names, matching the record's JSON keys.
const (
	Vendor          = "vendor"
	TransactionDate = "transaction_date"
	Amount          = "amount"
	Category        = "category"
)

// Fields lists the field names in record order.
var Fields = []string{Vendor, TransactionDate, Amount, Category}

// Status tells whether a field was resolved by a rule or fell back to its
// default.
type Status int

const (
	Resolved Status = iota
	Defaulted
)

func (s Status) String() string {
	if s == Defaulted {
		return "defaulted"
	}
	return "resolved"
}

// Entry records the per-field status of one result.
type Entry struct {
	Result models.Result
	Fields map[string]Status
	Err    error // post-hoc validation outcome
}

// Complete reports whether every field was resolved.
func (e Entry) Complete() bool {
	for _, s := range e.Fields {
		if s == Defaulted {
			return false
		}
	}
	return true
}

type Report struct {
	Items []Entry
}

// Build classifies every field of every result. A field holding its
// default counts as defaulted.
func Build(results []models.Result) Report {
	items := make([]Entry, 0, len(results))
	for _, r := range results {
		items = append(items, Entry{
			Result: r,
			Fields: map[string]Status{
				Vendor:          statusOf(r.HasVendor()),
				TransactionDate: statusOf(r.TransactionDate != nil),
				Amount:          statusOf(r.Amount != models.DefaultAmount), // a matched zero total counts as defaulted
				Category:        statusOf(r.Category != nil),
			},
			Err: r.Validate(),
		})
	}
	return Report{Items: items}
}

func statusOf(resolved bool) Status {
	if resolved {
		return Resolved
	}
	return Defaulted
}

// DefaultedCount returns how many results left field at its default.
func (r Report) DefaultedCount(field string) int {
	n := 0
	for _, e := range r.Items {
		if e.Fields[field] == Defaulted {
			n++
		}
	}
	return n
}

// CompleteCount returns how many results resolved every field.
func (r Report) CompleteCount() int {
	n := 0
	for _, e := range r.Items {
		if e.Complete() {
			n++
		}
	}
	return n
}

// Invalid returns the entries that fail post-hoc validation.
func (r Report) Invalid() []Entry {
	var out []Entry
	for _, e := range r.Items {
		if e.Err != nil {
			out = append(out, e)
		}
	}
	return out
}

// Print writes a short summary.
func (r Report) Print(w io.Writer) {
	fmt.Fprintf(w, "documents: %d, complete: %d, invalid: %d\n", len(r.Items), r.CompleteCount(), len(r.Invalid()))
	for _, f := range Fields {
		fmt.Fprintf(w, "  %-16s defaulted in %d\n", f, r.DefaultedCount(f))
	}
}
