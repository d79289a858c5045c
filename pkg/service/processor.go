package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/receiptr/pkg/models"
	"github.com/yurifrl/receiptr/pkg/parser"
	"github.com/yurifrl/receiptr/pkg/plan"
)

// ErrUnsupportedFile is returned for files that are not plain text.
var ErrUnsupportedFile = errors.New("unsupported file type")

// StdinSource names results read from standard input.
const StdinSource = "-"

// Processor feeds documents through the parser. Text extraction from images
// and PDFs happens upstream; only decoded text is accepted here.
type Processor struct {
	parser *parser.Parser
	logger *log.Logger
}

func NewProcessor(p *parser.Parser, logger *log.Logger) *Processor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Processor{
		parser: p,
		logger: logger,
	}
}

// ProcessText infers the record of an already decoded document.
func (p *Processor) ProcessText(source, text string) models.Result {
	if !utf8.ValidString(text) {
		p.logger.Warn("invalid utf-8 replaced", "source", source)
		text = strings.ToValidUTF8(text, "\uFFFD")
	}
	record := p.parser.Infer(text)
	p.logger.Debug("inferred record", "source", source, "vendor", record.Vendor, "amount", record.Amount)
	return models.Result{Source: source, Record: record}
}

func (p *Processor) ProcessReader(source string, r io.Reader) (models.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Result{}, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return p.ProcessText(source, string(data)), nil
}

func (p *Processor) ProcessFile(path string) (models.Result, error) {
	if !isTextFile(path) {
		return models.Result{}, fmt.Errorf("%s: %w", path, ErrUnsupportedFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Result{}, fmt.Errorf("failed to read file: %w", err)
	}

	p.logger.Info("processing file", "path", path)
	return p.ProcessText(path, string(data)), nil
}

// ProcessDirectory processes the text files directly inside dir. Files that
// fail are logged and skipped.
func (p *Processor) ProcessDirectory(dir string) ([]models.Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory: %w", err)
	}

	var results []models.Result
	for _, entry := range entries {
		if entry.IsDir() || !isTextFile(entry.Name()) {
			continue
		}

		result, err := p.ProcessFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			p.logger.Error("failed to process entry", "file", entry.Name(), "error", err)
			continue
		}
		results = append(results, result)
	}

	return results, nil
}

// ProcessPaths expands each glob and processes the files and directories it
// matches.
func (p *Processor) ProcessPaths(patterns []string) ([]models.Result, error) {
	var results []models.Result
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files found matching pattern %s", pattern)
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				p.logger.Warn("failed to stat file", "error", err, "file", match)
				continue
			}

			if info.IsDir() {
				dirResults, err := p.ProcessDirectory(match)
				if err != nil {
					p.logger.Warn("failed to process directory", "error", err, "dir", match)
					continue
				}
				results = append(results, dirResults...)
				continue
			}

			result, err := p.ProcessFile(match)
			if err != nil {
				p.logger.Warn("failed to process file", "error", err, "file", match)
				continue
			}
			results = append(results, result)
		}
	}
	return results, nil
}

// ProcessPlan processes every document of a batch plan in order.
func (p *Processor) ProcessPlan(pl *plan.Plan) ([]models.Result, error) {
	results := make([]models.Result, 0, len(pl.Documents))
	for i, doc := range pl.Documents {
		source := doc.Source(i)
		if doc.Text != "" {
			results = append(results, p.ProcessText(source, doc.Text))
			continue
		}

		path, err := pl.Path(doc)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", source, err)
		}
		result, err := p.ProcessFile(path)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", source, err)
		}
		result.Source = source
		results = append(results, result)
	}
	return results, nil
}

func isTextFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".txt" || ext == ".text"
}
