package parser

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/receiptr/pkg/models"
)

// Parser infers a models.Record from the text of one document. It holds no
// mutable state, so a single Parser can serve any number of goroutines.
type Parser struct {
	logger *log.Logger
	rules  Rules
}

// Option configures a Parser.
type Option func(*settings)

type settings struct {
	order DateOrder
	rules *Rules
}

// WithDateOrder selects how slash dates are read. Ignored when WithRules
// is also given.
func WithDateOrder(order DateOrder) Option {
	return func(s *settings) {
		s.order = order
	}
}

// WithRules replaces the built-in rule set.
func WithRules(rules Rules) Option {
	return func(s *settings) {
		s.rules = &rules
	}
}

func New(logger *log.Logger, opts ...Option) *Parser {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := settings{order: DayFirst}
	for _, opt := range opts {
		opt(&s)
	}

	rules := RulesFor(s.order)
	if s.rules != nil {
		rules = *s.rules
	}

	return &Parser{
		logger: logger,
		rules:  rules,
	}
}

// Rules returns the rule set in use.
func (p *Parser) Rules() Rules {
	return p.rules
}

// Infer runs the four resolvers over text. Fields nothing matched keep
// their defaults; Infer never fails.
func (p *Parser) Infer(text string) models.Record {
	record := models.NewRecord()

	if vendor, ok := p.Vendor(text); ok {
		record.Vendor = vendor
	}
	if date, ok := p.Date(text); ok {
		record.TransactionDate = &date
	}
	if amount, ok := p.Amount(text); ok {
		record.Amount = amount
	}
	if category, ok := p.Category(text); ok {
		record.Category = &category
	}

	return record
}

// Vendor returns the capture of the first vendor rule that matches.
func (p *Parser) Vendor(text string) (string, bool) {
	for _, rule := range p.rules.Vendors {
		if vendor, ok := rule.Match(text); ok {
			p.logger.Debug("vendor resolved", "rule", rule.Name, "vendor", vendor)
			return vendor, true
		}
	}
	p.logger.Debug("vendor not found", "default", models.UnknownVendor)
	return "", false
}

// Date returns the date of the first family that both matches and parses.
// A family whose first match fails to parse is abandoned as a whole.
func (p *Parser) Date(text string) (models.Date, bool) {
	for _, family := range p.rules.Dates {
		date, raw, ok := family.Match(text)
		if ok {
			p.logger.Debug("date resolved", "family", family.Name, "match", raw, "date", date)
			return date, true
		}
		if raw != "" {
			p.logger.Debug("date candidate rejected", "family", family.Name, "match", raw)
		}
	}
	p.logger.Debug("date not found")
	return models.Date{}, false
}

// Amount returns the first amount rule whose capture parses as a number.
func (p *Parser) Amount(text string) (float64, bool) {
	for _, rule := range p.rules.Amounts {
		amount, raw, ok := rule.Match(text)
		if ok {
			p.logger.Debug("amount resolved", "rule", rule.Name, "match", raw, "amount", amount)
			return amount, true
		}
		if raw != "" {
			p.logger.Debug("amount candidate rejected", "rule", rule.Name, "match", raw)
		}
	}
	p.logger.Debug("amount not found", "default", models.DefaultAmount)
	return models.DefaultAmount, false
}

// Category returns the label of the first keyword group present in text.
func (p *Parser) Category(text string) (models.Category, bool) {
	lower := strings.ToLower(text)
	for _, rule := range p.rules.Categories {
		if kw, ok := rule.Match(lower); ok {
			p.logger.Debug("category resolved", "category", rule.Category, "keyword", kw)
			return rule.Category, true
		}
	}
	p.logger.Debug("category not found")
	return "", false
}

var defaultParser = New(nil)

// Infer runs the built-in rules without logging.
func Infer(text string) models.Record {
	return defaultParser.Infer(text)
}
