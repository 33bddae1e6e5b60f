package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	formatTable    = "table"
	formatJSON     = "json"
	formatCSV      = "csv"
	formatMarkdown = "md"
	formatYAML     = "yaml"
)

// tabular is a list of rows under named columns. Column names double as
// keys in json and yaml output.
type tabular struct {
	columns []string
	rows    [][]any
}

func newTabular(columns ...string) *tabular {
	return &tabular{columns: columns}
}

func (t *tabular) add(values ...any) {
	t.rows = append(t.rows, values)
}

// records returns the rows as column-keyed maps.
func (t *tabular) records() []map[string]any {
	out := make([]map[string]any, 0, len(t.rows))
	for _, row := range t.rows {
		rec := make(map[string]any, len(t.columns))
		for i, col := range t.columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out
}

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatCSV, formatMarkdown, "markdown", formatYAML, "yml":
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use table, json, csv, md or yaml)", format)
	}
}

// renderList writes t in the given format. empty is printed instead of an
// empty table.
func renderList(w io.Writer, format string, t *tabular, empty string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	switch format {
	case formatJSON:
		return writeJSON(w, t.records())
	case formatYAML, "yml":
		return writeYAML(w, t.records())
	}

	if len(t.rows) == 0 && format == formatTable {
		_, _ = fmt.Fprintln(w, empty)
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	header := make(table.Row, len(t.columns))
	for i, col := range t.columns {
		header[i] = col
	}
	tw.AppendHeader(header)
	for _, row := range t.rows {
		cells := make(table.Row, len(row))
		for i, v := range row {
			cells[i] = cell(v)
		}
		tw.AppendRow(cells)
	}

	switch format {
	case formatCSV:
		tw.RenderCSV()
	case formatMarkdown, "markdown":
		tw.RenderMarkdown()
	default:
		tw.Render()
	}
	return nil
}

// renderRecord writes a single object. In table format it prints one
// "key: value" line per field.
func renderRecord(w io.Writer, format string, keys []string, values []any) error {
	t := newTabular(keys...)
	t.add(values...)

	switch format {
	case formatJSON:
		return writeJSON(w, t.records()[0])
	case formatYAML, "yml":
		return writeYAML(w, t.records()[0])
	case formatTable:
		width := 0
		for _, k := range keys {
			if len(k) > width {
				width = len(k)
			}
		}
		for i, k := range keys {
			_, _ = fmt.Fprintf(w, "%-*s  %s\n", width+1, k+":", cell(values[i]))
		}
		return nil
	default:
		return renderList(w, format, t, "")
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// cell renders a value for text formats.
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Local().Format("2006-01-02 15:04")
	case *float64:
		if x == nil {
			return "-"
		}
		return fmt.Sprintf("%.3f", *x)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", x), "0"), ".")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
