package render

import (
	stdcsv "encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/k0kubun/pp/v3"
	"gopkg.in/yaml.v3"

	"github.com/yurifrl/receiptr/pkg/csv"
	"github.com/yurifrl/receiptr/pkg/models"
	"github.com/yurifrl/receiptr/pkg/parser"
)

const (
	JSON   = "json"
	YAML   = "yaml"
	CSV    = "csv"
	Pretty = "pretty"
)

// Results writes results in the given format.
func Results(w io.Writer, format string, results []models.Result) error {
	if results == nil {
		results = []models.Result{}
	}

	switch format {
	case JSON:
		return writeJSON(w, results)
	case YAML:
		return writeYAML(w, results)
	case CSV:
		out, err := csv.Create(results)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case Pretty:
		return writePretty(w, results)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Rules writes the active rule listing.
func Rules(w io.Writer, format string, rules []parser.RuleInfo) error {
	switch format {
	case JSON:
		return writeJSON(w, rules)
	case YAML:
		return writeYAML(w, rules)
	case Pretty:
		return writePretty(w, rules)
	case CSV:
		cw := stdcsv.NewWriter(w)
		if err := cw.Write([]string{"field", "order", "name", "pattern"}); err != nil {
			return err
		}
		for _, r := range rules {
			if err := cw.Write([]string{r.Field, strconv.Itoa(r.Order), r.Name, r.Pattern}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writePretty(w io.Writer, v interface{}) error {
	printer := pp.New()
	printer.SetColoringEnabled(false)
	_, err := printer.Fprintln(w, v)
	return err
}
