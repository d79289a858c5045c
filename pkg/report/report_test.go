package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yurifrl/receiptr/pkg/models"
	"github.com/yurifrl/receiptr/pkg/parser"
)

func TestBuild(t *testing.T) {
	results := []models.Result{
		{Source: "full", Record: parser.Infer("Invoice from Acme Traders\nDate: 05-11-2023\nTotal: $123.45\ngrocery")},
		{Source: "amount only", Record: parser.Infer("Total: 9.99")},
		{Source: "empty", Record: parser.Infer("")},
	}

	r := Build(results)
	if len(r.Items) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(r.Items))
	}
	if !r.Items[0].Complete() || r.Items[0].Err != nil {
		t.Errorf("Expected first entry complete and valid, got %+v", r.Items[0])
	}
	if r.CompleteCount() != 1 {
		t.Errorf("Expected 1 complete, got %d", r.CompleteCount())
	}

	expected := map[string]int{Vendor: 2, TransactionDate: 2, Amount: 1, Category: 2}
	for field, want := range expected {
		if got := r.DefaultedCount(field); got != want {
			t.Errorf("DefaultedCount(%s): expected %d, got %d", field, want, got)
		}
	}

	if len(r.Invalid()) != 2 {
		t.Errorf("Expected 2 invalid entries, got %d", len(r.Invalid()))
	}
	if r.Items[1].Fields[Amount] != Resolved || r.Items[1].Fields[Vendor].String() != "defaulted" {
		t.Errorf("Unexpected field statuses: %+v", r.Items[1].Fields)
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Build([]models.Result{{Source: "empty", Record: models.NewRecord()}}).Print(&buf)

	out := buf.String()
	if !strings.HasPrefix(out, "documents: 1, complete: 0, invalid: 1\n") {
		t.Errorf("Unexpected summary line:\n%s", out)
	}
	if !strings.Contains(out, "transaction_date") {
		t.Errorf("Expected field lines in:\n%s", out)
	}
}

func TestBuildZeroTotal(t *testing.T) {
	r := Build([]models.Result{{Source: "zero", Record: parser.Infer("Total: 0.00")}})
	if r.Items[0].Fields[Amount] != Defaulted {
		t.Errorf("Expected a zero total to count as defaulted, got %s", r.Items[0].Fields[Amount])
	}
}
