// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/windatlas/windatlas/internal/graph"
	"github.com/windatlas/windatlas/internal/report"
)

func init() {
	RegisterFormatter(&XLSXFormatter{})
}

// XLSXFormatter writes a view as an Excel workbook with one sheet per
// computed output.
type XLSXFormatter struct{}

var _ Formatter = (*XLSXFormatter)(nil)

// Name returns the format name.
func (x *XLSXFormatter) Name() string { return "xlsx" }

// Sheet names.
const (
	SheetSelection  = "Selection"
	SheetCapacities = "Capacities"
	SheetRanking    = "Top projects"
	SheetMarkers    = "Map markers"
)

// Format writes the workbook to w.
func (x *XLSXFormatter) Format(v *graph.View, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}
	sw := &sheetWriter{f: f, bold: bold}

	if err := f.SetSheetName("Sheet1", SheetSelection); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	sel := v.State.Selection
	sw.write(SheetSelection, []any{"Filter", "Value"},
		[]any{"Region", sel.Region},
		[]any{"Sub-region", sel.SubRegion},
		[]any{"Country", sel.Country},
		[]any{"Status", strings.Join(sel.Statuses, ", ")},
		[]any{"Type", strings.Join(sel.Types, ", ")},
		[]any{"Years", report.YearsLabel(sel.Years)},
		[]any{"Matched", v.Matched},
	)

	if v.Has(graph.OutCapacities) {
		rows := make([][]any, 0, len(v.Capacities))
		for _, c := range v.Capacities {
			rows = append(rows, []any{c.Region, c.MW, c.Label})
		}
		sw.add(SheetCapacities, []any{"Region", "Capacity (MW)", "Label"}, rows...)
	}

	if v.Has(graph.OutBarChart) {
		rows := make([][]any, 0, len(v.BarChart))
		for i := len(v.BarChart) - 1; i >= 0; i-- {
			r := v.BarChart[i]
			rows = append(rows, []any{len(v.BarChart) - i, r.ProjectName, r.Region, r.SubRegion, r.Country, r.InstallationType, r.Status, r.CapacityMW})
		}
		sw.add(SheetRanking, []any{"Rank", "Project", "Region", "Sub-region", "Country", "Type", "Status", "Capacity (MW)"}, rows...)
	}

	if v.Has(graph.OutMap) && v.Map != nil {
		rows := make([][]any, 0, len(v.Map.Markers))
		for _, m := range v.Map.Markers {
			var year any
			if m.StartYear.Valid {
				year = m.StartYear.Year
			}
			rows = append(rows, []any{m.Label, m.Status, m.InstallationType, m.CapacityMW, m.Latitude, m.Longitude, year})
		}
		sw.add(SheetMarkers, []any{"Label", "Status", "Type", "Capacity (MW)", "Latitude", "Longitude", "Start year"}, rows...)
	}

	if sw.err != nil {
		return sw.err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// sheetWriter keeps the first error across a sequence of sheet writes.
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (s *sheetWriter) add(sheet string, header []any, rows ...[]any) {
	if s.err != nil {
		return
	}
	if _, err := s.f.NewSheet(sheet); err != nil {
		s.err = fmt.Errorf("xlsx sheet %s: %w", sheet, err)
		return
	}
	s.write(sheet, header, rows...)
}

func (s *sheetWriter) write(sheet string, header []any, rows ...[]any) {
	if s.err != nil {
		return
	}
	all := append([][]any{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err == nil {
			err = s.f.SetSheetRow(sheet, cell, &row)
		}
		if err != nil {
			s.err = fmt.Errorf("xlsx sheet %s row %d: %w", sheet, i+1, err)
			return
		}
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err == nil {
		err = s.f.SetCellStyle(sheet, "A1", last, s.bold)
	}
	if err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(header))
		err = s.f.SetColWidth(sheet, "A", lastCol, 16)
	}
	if err != nil {
		s.err = fmt.Errorf("xlsx sheet %s: %w", sheet, err)
	}
}
