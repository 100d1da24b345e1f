package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// Dataset is an ordered table of rendered cells. Rows are kept as
// slices, not maps, so the column order of the official load sheets is
// fixed at build time and survives serialization unchanged.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

// NewDataset starts a table with the given column order.
func NewDataset(headers ...string) *Dataset {
	return &Dataset{Headers: headers}
}

// Append adds one row. Short rows are padded so every record matches
// the header width (the totals row of a load sheet fills only a few
// columns).
func (d *Dataset) Append(cells ...string) {
	if len(cells) < len(d.Headers) {
		padded := make([]string, len(d.Headers))
		copy(padded, cells)
		cells = padded
	} else if len(cells) > len(d.Headers) {
		cells = cells[:len(d.Headers)]
	}
	d.Rows = append(d.Rows, cells)
}

// Hours renders a load value with the one-decimal precision used
// throughout the load norms (targets, caps, and deviations all carry
// tenths of an hour).
func Hours(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Count renders an integer cell.
func Count(v int) string {
	return strconv.Itoa(v)
}

// Percent renders a fill ratio cell.
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// CSVExporter renders datasets into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data *Dataset) ([]byte, error) {
	if data == nil || len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for i, row := range data.Rows {
		if len(row) != len(data.Headers) {
			return nil, fmt.Errorf("csv row %d has %d cells, want %d", i, len(row), len(data.Headers))
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
