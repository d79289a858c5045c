package plan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is one entry of a batch plan. Exactly one of File or Text is set.
type Document struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
	Text string `yaml:"text"`
}

type Plan struct {
	Documents []Document `yaml:"documents"`

	dir string
}

// Load reads a plan. Relative document paths resolve against the plan's
// directory.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(p.Documents) == 0 {
		return nil, fmt.Errorf("plan has no documents")
	}
	for i, doc := range p.Documents {
		if (doc.File == "") == (doc.Text == "") {
			return nil, fmt.Errorf("document %d: exactly one of file or text is required", i+1)
		}
	}

	p.dir = filepath.Dir(path)
	return &p, nil
}

// Source names the document for output: its name, its file, or its position.
func (d Document) Source(index int) string {
	switch {
	case d.Name != "":
		return d.Name
	case d.File != "":
		return d.File
	default:
		return fmt.Sprintf("document-%d", index+1)
	}
}

// Path returns the absolute path of a file document, expanding ~.
func (p *Plan) Path(d Document) (string, error) {
	if strings.HasPrefix(d.File, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, d.File[2:]), nil
	}
	if filepath.IsAbs(d.File) {
		return d.File, nil
	}
	return filepath.Join(p.dir, d.File), nil
}

// Print writes a one-line summary per document.
func (p *Plan) Print(w io.Writer) {
	for i, d := range p.Documents {
		if d.File != "" {
			fmt.Fprintf(w, "[%d] %s file=%s\n", i+1, d.Source(i), d.File)
			continue
		}
		fmt.Fprintf(w, "[%d] %s inline (%d bytes)\n", i+1, d.Source(i), len(d.Text))
	}
}
