package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yurifrl/receiptr/pkg/models"
)

// DateOrder decides how the two leading numbers of a slash date are read.
type DateOrder string

const (
	DayFirst   DateOrder = "day_first"
	MonthFirst DateOrder = "month_first"
)

// ParseDateOrder maps a config value onto a DateOrder.
func ParseDateOrder(s string) (DateOrder, bool) {
	switch DateOrder(strings.ToLower(strings.TrimSpace(s))) {
	case DayFirst, "":
		return DayFirst, true
	case MonthFirst:
		return MonthFirst, true
	default:
		return "", false
	}
}

// VendorRule captures a vendor name in its first group.
type VendorRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Match returns the trimmed capture of the leftmost match.
func (r VendorRule) Match(text string) (string, bool) {
	m := r.Pattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	vendor := strings.TrimSpace(m[1])
	if vendor == "" {
		return "", false
	}
	return vendor, true
}

// DateFamily is one textual date shape plus the layouts tried, in order,
// against its first match.
type DateFamily struct {
	Name      string
	Pattern   *regexp.Regexp
	Layouts   []string
	Normalize func(string) string
}

// Match finds the first occurrence of the family in text and parses it.
// raw is the matched text, or "" when the pattern did not hit. ok is false
// when nothing matched or every layout rejected the match.
func (f DateFamily) Match(text string) (d models.Date, raw string, ok bool) {
	raw = f.Pattern.FindString(text)
	if raw == "" {
		return models.Date{}, "", false
	}
	value := raw
	if f.Normalize != nil {
		value = f.Normalize(value)
	}
	for _, layout := range f.Layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return models.NewDate(t), raw, true
		}
	}
	return models.Date{}, raw, false
}

// AmountRule captures a numeric token in its first group.
type AmountRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Match parses the captured token after turning commas into decimal points.
// raw is the captured token, or "" when the pattern did not hit.
func (r AmountRule) Match(text string) (amount float64, raw string, ok bool) {
	m := r.Pattern.FindStringSubmatch(text)
	if len(m) < 2 || m[1] == "" {
		return 0, "", false
	}
	raw = m[1]
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || v < 0 {
		return 0, raw, false
	}
	return v, raw, true
}

// CategoryRule assigns Category when any keyword occurs in the text,
// ignoring case.
type CategoryRule struct {
	Category models.Category
	Keywords []string
}

// Match expects lower to be already lower-cased.
func (r CategoryRule) Match(lower string) (string, bool) {
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return kw, true
		}
	}
	return "", false
}

// Rules holds the ordered rule lists of every field. For each field the
// first rule that yields a value wins.
type Rules struct {
	Vendors    []VendorRule
	Dates      []DateFamily
	Amounts    []AmountRule
	Categories []CategoryRule
}

// Patterns keep to bounded, non-nested quantifiers.
var (
	// Captured names never cross a line break.
	vendorLabel   = regexp.MustCompile(`(?i)(?:Vendor|Store|Shop):\s*([A-Za-z0-9][A-Za-z0-9 \t]*)`)
	vendorSuffix  = regexp.MustCompile(`(?im)^[ \t]*([A-Za-z][A-Za-z \t]*)[ \t]+(?:Supermarket|Groceries|Store)\b`)
	vendorInvoice = regexp.MustCompile(`(?i)Invoice from\s*([A-Za-z0-9][A-Za-z0-9 \t]*)`)

	dateSlash = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
	dateDash  = regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{2,4}\b`)
	dateISO   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	dateMonth = regexp.MustCompile(`(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},\s+\d{4}`)

	amountLabelFirst = regexp.MustCompile(`(?i)(?:Total|Amount Due|Balance|Sum):\s*[$€£]?\s*(\d+(?:[.,]\d{2})?)`)
	amountLabelAfter = regexp.MustCompile(`(?i)[$€£]?\s*(\d+[.,]\d{2})\s*(?:Total|Amount Due|Balance|Sum)`)
	amountCurrency   = regexp.MustCompile(`(?i)(\d+[.,]\d{2})\s*(?:USD|EUR|GBP)`)
)

// DefaultRules returns the built-in rule set with day-first slash dates.
func DefaultRules() Rules {
	return RulesFor(DayFirst)
}

// RulesFor returns the built-in rule set reading slash dates in the given
// order. Slash dates need a 4-digit year. Dash dates are always day-first.
func RulesFor(order DateOrder) Rules {
	slashLayouts := []string{"2/1/2006"}
	if order == MonthFirst {
		slashLayouts = []string{"1/2/2006"}
	}

	return Rules{
		Vendors: []VendorRule{
			{Name: "label", Pattern: vendorLabel},
			{Name: "business-suffix", Pattern: vendorSuffix},
			{Name: "invoice-from", Pattern: vendorInvoice},
		},
		Dates: []DateFamily{
			{Name: "slash", Pattern: dateSlash, Layouts: slashLayouts},
			{Name: "dash", Pattern: dateDash, Layouts: []string{"2-1-2006", "2-1-06"}},
			{Name: "iso", Pattern: dateISO, Layouts: []string{"2006-01-02"}},
			{
				Name:      "month-name",
				Pattern:   dateMonth,
				Layouts:   []string{"Jan 2, 2006", "January 2, 2006"},
				Normalize: collapseSpaces,
			},
		},
		Amounts: []AmountRule{
			{Name: "label-first", Pattern: amountLabelFirst},
			{Name: "label-after", Pattern: amountLabelAfter},
			{Name: "currency-code", Pattern: amountCurrency},
		},
		Categories: []CategoryRule{
			{Category: models.Groceries, Keywords: []string{"grocery", "supermarket", "food"}},
			{Category: models.UtilitiesElectricity, Keywords: []string{"electricity", "power bill"}},
			{Category: models.UtilitiesInternet, Keywords: []string{"internet", "broadband"}},
			{Category: models.UtilitiesWater, Keywords: []string{"water", "utility"}},
			{Category: models.Dining, Keywords: []string{"restaurant", "cafe"}},
			{Category: models.Transportation, Keywords: []string{"transport", "fuel", "petrol"}},
		},
	}
}

// RuleInfo is a printable view of one rule.
type RuleInfo struct {
	Field   string `json:"field" yaml:"field"`
	Order   int    `json:"order" yaml:"order"`
	Name    string `json:"name" yaml:"name"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// Describe flattens the rule lists in evaluation order.
func (r Rules) Describe() []RuleInfo {
	var out []RuleInfo
	for i, v := range r.Vendors {
		out = append(out, RuleInfo{Field: "vendor", Order: i + 1, Name: v.Name, Pattern: v.Pattern.String()})
	}
	for i, d := range r.Dates {
		out = append(out, RuleInfo{Field: "transaction_date", Order: i + 1, Name: d.Name, Pattern: d.Pattern.String()})
	}
	for i, a := range r.Amounts {
		out = append(out, RuleInfo{Field: "amount", Order: i + 1, Name: a.Name, Pattern: a.Pattern.String()})
	}
	for i, c := range r.Categories {
		out = append(out, RuleInfo{Field: "category", Order: i + 1, Name: string(c.Category), Pattern: strings.Join(c.Keywords, "|")})
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
