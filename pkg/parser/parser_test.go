package parser

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/receiptr/pkg/models"
)

func TestInferRoundTrip(t *testing.T) {
	content := "Invoice from Acme Traders\nDate: 05-11-2023\nTotal: $123.45\nCategory: grocery store purchase"

	parser := New(log.Default())
	got := parser.Infer(content)

	assertRecord(t, got, "Acme Traders", "2023-11-05", 123.45, "Groceries")
}

func TestInferDefaults(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t  ",
		"lorem ipsum dolor sit amet",
		"%%%%@@@@####!!!!",
		strings.Repeat("x", 1<<16),
	}

	parser := New(nil)
	for _, in := range inputs {
		got := parser.Infer(in)
		if got != models.NewRecord() {
			t.Errorf("Expected defaults for %.20q, got %+v", in, got)
		}
		assertRecord(t, got, models.UnknownVendor, "", 0.0, "")
	}
}

func TestInferRecordKeys(t *testing.T) {
	data, err := json.Marshal(Infer(""))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	for _, key := range []string{"vendor", "transaction_date", "amount", "category"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("Expected key %q in %s", key, data)
		}
	}
	if fields["transaction_date"] != nil || fields["category"] != nil {
		t.Errorf("Expected null date and category, got %s", data)
	}
}

func TestInferIdempotent(t *testing.T) {
	content := "Fresh Mart Supermarket\n12/03/2024\nSum: 45,10\ncafe"

	parser := New(nil)
	first, err := json.Marshal(parser.Infer(content))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	second, err := json.Marshal(parser.Infer(content))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	if string(first) != string(second) {
		t.Errorf("Expected identical output, got %s and %s", first, second)
	}
}

func TestInferConcurrent(t *testing.T) {
	content := "Store: Corner Deli\nJan 5, 2024\n12.00 USD\nrestaurant"
	parser := New(nil)
	want := parser.Infer(content)

	var wg sync.WaitGroup
	results := make([]models.Record, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = parser.Infer(content)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got.Vendor != want.Vendor || got.DateString() != want.DateString() ||
			got.Amount != want.Amount || got.CategoryString() != want.CategoryString() {
			t.Errorf("Result %d mismatch:\nExpected: %+v\nGot: %+v", i, want, got)
		}
	}
}

func TestWithRules(t *testing.T) {
	rules := DefaultRules()
	rules.Categories = append([]CategoryRule{{Category: models.Dining, Keywords: []string{"pizza"}}}, rules.Categories...)

	parser := New(nil, WithRules(rules))
	got, ok := parser.Category("pizza and groceries")
	if !ok || got != models.Dining {
		t.Errorf("Expected prepended rule to win, got %q (ok=%v)", got, ok)
	}

	if len(parser.Rules().Categories) != len(DefaultRules().Categories)+1 {
		t.Errorf("Expected custom rules to be kept, got %d category rules", len(parser.Rules().Categories))
	}
}

func TestDescribe(t *testing.T) {
	infos := DefaultRules().Describe()
	if len(infos) != 3+4+3+6 {
		t.Fatalf("Expected 16 rules, got %d", len(infos))
	}
	if infos[0].Field != "vendor" || infos[0].Name != "label" || infos[0].Order != 1 {
		t.Errorf("Unexpected first rule: %+v", infos[0])
	}
	last := infos[len(infos)-1]
	if last.Field != "category" || last.Name != string(models.Transportation) || last.Pattern != "transport|fuel|petrol" {
		t.Errorf("Unexpected last rule: %+v", last)
	}
}

func assertRecord(t *testing.T, r models.Record, vendor, date string, amount float64, category string) {
	t.Helper()
	if r.Vendor != vendor || r.DateString() != date || r.Amount != amount || r.CategoryString() != category {
		t.Errorf("Record mismatch:\nExpected: vendor=%s, date=%s, amount=%.2f, category=%s\nGot: vendor=%s, date=%s, amount=%.2f, category=%s",
			vendor, date, amount, category,
			r.Vendor, r.DateString(), r.Amount, r.CategoryString())
	}
}
