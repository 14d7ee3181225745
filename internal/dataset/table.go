// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// Format identifies an on-disk table encoding.
type Format string

// Supported table formats, in lookup preference order.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

var formats = []Format{FormatCSV, FormatXLSX, FormatJSON}

// ErrMissingColumn is returned when a table lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// FormatFor infers the table format from a file extension.
func FormatFor(path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, f := range formats {
		if string(f) == ext {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported table format %q (supported: csv, xlsx, json)", ext)
}

// table is a decoded header plus string cells, independent of encoding.
type table struct {
	header []string
	rows   [][]string
	// lines holds the source line of each row. When nil, rows are
	// consecutive from firstLine.
	lines     []int
	firstLine int
}

// line returns the source line of rows[i].
func (t *table) line(i int) int {
	if t.lines != nil {
		return t.lines[i]
	}
	return t.firstLine + i
}

func readTable(r io.Reader, f Format) (*table, error) {
	switch f {
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r)
	case FormatJSON:
		return readJSON(r)
	default:
		return nil, fmt.Errorf("unsupported table format %q", f)
	}
}

// readCSV keeps the line each record started on; encoding/csv drops blank
// lines, so record indexes drift from the file.
func readCSV(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	t := &table{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if t.header == nil {
			t.header = rec
			continue
		}
		line, _ := cr.FieldPos(0)
		t.rows = append(t.rows, rec)
		t.lines = append(t.lines, line)
	}
	return t, nil
}

func readXLSX(r io.Reader) (*table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only workbook

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &table{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &table{}, nil
	}
	return &table{header: rows[0], rows: rows[1:], firstLine: 2}, nil
}

func readJSON(r io.Reader) (*table, error) {
	var records []map[string]any
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	keys := make(map[string]bool)
	for _, rec := range records {
		for k := range rec {
			keys[k] = true
		}
	}
	header := make([]string, 0, len(keys))
	for k := range keys {
		header = append(header, k)
	}
	sort.Strings(header)

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(header))
		for j, k := range header {
			row[j] = jsonCell(rec[k])
		}
		rows[i] = row
	}
	return &table{header: header, rows: rows, firstLine: 1}, nil
}

func jsonCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// columnKey folds a header to lowercase letters and digits, so
// "Capacity (MW)", "capacity_mw" and "CapacityMW" all bind together.
func columnKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// columns maps folded column keys to header positions.
type columns map[string]int

func bindColumns(header []string, required ...string) (columns, error) {
	cols := make(columns, len(header))
	for i, h := range header {
		k := columnKey(h)
		if _, dup := cols[k]; !dup {
			cols[k] = i
		}
	}
	var missing []string
	for _, name := range required {
		if _, ok := cols[columnKey(name)]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

// get returns the trimmed cell for the first matching alias, or "".
func (c columns) get(row []string, aliases ...string) string {
	for _, a := range aliases {
		i, ok := c[columnKey(a)]
		if !ok {
			continue
		}
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return ""
}

// parseFloat reads a measurement. Blank cells read as zero; NaN and
// infinities are returned as parsed so validation can report them.
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if isBlank(s) && !strings.EqualFold(s, "nan") {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseFinite is parseFloat for tables nothing validates: a non-finite
// value is an error.
func parseFinite(s string) (float64, error) {
	v, err := parseFloat(s)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

// parseCoord reads a coordinate, which is absent when the cell is blank.
func parseCoord(s string) (NullFloat, error) {
	if isBlank(s) {
		return NullFloat{}, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return NullFloat{}, err
	}
	return FloatOf(v), nil
}

// parseYear accepts "2005" as well as pandas-style "2005.0".
func parseYear(s string) (NullYear, error) {
	if isBlank(s) {
		return NullYear{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NullYear{}, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullYear{}, nil
	}
	return YearOf(int(math.Round(v))), nil
}

func isBlank(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "null", "none", "na", "n/a":
		return true
	}
	return false
}
