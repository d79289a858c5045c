package csv

import (
	encsv "encoding/csv"
	"strings"
	"testing"

	"github.com/yurifrl/receiptr/pkg/models"
	"github.com/yurifrl/receiptr/pkg/parser"
)

func TestCreate(t *testing.T) {
	acme := models.Result{
		Source: "receipts/acme, march.txt",
		Record: parser.Infer("Invoice from Acme Traders\nDate: 05-11-2023\nTotal: $123.45\ngrocery"),
	}
	empty := models.Result{Source: "empty.txt", Record: models.NewRecord()}

	out, err := Create([]models.Result{acme, empty})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rows, err := encsv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v\n%s", err, out)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(Header, ",") {
		t.Errorf("Unexpected header %v", rows[0])
	}

	expected := []string{acme.ID(), "receipts/acme, march.txt", "Acme Traders", "2023-11-05", "123.45", "Groceries"}
	if strings.Join(rows[1], "|") != strings.Join(expected, "|") {
		t.Errorf("Expected %v, got %v", expected, rows[1])
	}
	expected = []string{empty.ID(), "empty.txt", models.UnknownVendor, "", "0.00", ""}
	if strings.Join(rows[2], "|") != strings.Join(expected, "|") {
		t.Errorf("Expected %v, got %v", expected, rows[2])
	}
}
