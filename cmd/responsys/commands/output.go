package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fivetwenty-io/responsys-client/internal/constants"
	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// outputFormat returns the selected output format, table by default.
func outputFormat() string {
	format := strings.ToLower(viper.GetString("output"))
	if format == "" {
		return constants.FormatTable
	}

	return format
}

func renderJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

func renderYAML(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(constants.JSONIndentSize)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return encoder.Close()
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	header := make([]any, len(headers))
	for i, name := range headers {
		header[i] = name
	}

	table := tablewriter.NewWriter(w)
	table.Header(header...)

	for _, row := range rows {
		_ = table.Append(row)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// render writes data as JSON or YAML, or calls table for the table format.
func render(w io.Writer, data interface{}, table func() error) error {
	switch outputFormat() {
	case constants.FormatJSON:
		return renderJSON(w, data)
	case constants.FormatYAML:
		return renderYAML(w, data)
	default:
		return table()
	}
}

// renderRecords writes member records, one table row per record.
func renderRecords(w io.Writer, records []responsys.Record) error {
	return render(w, records, func() error {
		if len(records) == 0 {
			_, _ = fmt.Fprintln(w, "No records")

			return nil
		}

		headers, rows := responsys.ToTable(records)

		cells := make([][]string, 0, len(rows))
		for _, row := range rows {
			cells = append(cells, formatRow(row))
		}

		return renderTable(w, headers, cells)
	})
}

// renderRecord writes a single record as field/value pairs.
func renderRecord(w io.Writer, record responsys.Record) error {
	return render(w, record, func() error {
		headers, rows := responsys.ToTable([]responsys.Record{record})

		cells := make([][]string, 0, len(headers))
		for i, field := range headers {
			cells = append(cells, []string{field, formatValue(rows[0][i])})
		}

		return renderTable(w, []string{"Field", "Value"}, cells)
	})
}

func formatRow(row []any) []string {
	cells := make([]string, len(row))
	for i, value := range row {
		cells[i] = formatValue(value)
	}

	return cells
}

func formatValue(value any) string {
	if value == nil {
		return constants.NotAvailable
	}

	return fmt.Sprint(value)
}

// readRecordsFile loads an array of records from a JSON or YAML file.
func readRecordsFile(path string) ([]responsys.Record, error) {
	if path == "" {
		return nil, constants.ErrRecordsFileRequired
	}

	// path is supplied by the user running the CLI
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records file: %w", err)
	}

	var records []responsys.Record

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &records)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		return nil, fmt.Errorf("%w: %s", constants.ErrUnsupportedFile, path)
	}

	if err != nil {
		return nil, fmt.Errorf("parsing records file %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", constants.ErrEmptyRecordsFile, path)
	}

	return records, nil
}

// renderMergeResult writes the rows Responsys returned for a merge.
func renderMergeResult(w io.Writer, result *responsys.MergeResult) error {
	return renderRecords(w, result.Members())
}
