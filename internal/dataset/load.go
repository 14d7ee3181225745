// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/windatlas/windatlas/internal/testable"
)

// FS is the file system implementation used by this package.
// Override in tests with a testable.MockFileSystem.
var FS testable.FileSystem = testable.DefaultFS

// Table base names looked up inside a data directory.
const (
	ProjectsTable = "projects"
	SummaryTable  = "summary"
	GeoTable      = "geo"
)

// Column names as written by the upstream tracker export. Lookups are
// case- and punctuation-insensitive.
const (
	colRegion      = "Region"
	colSubRegion   = "Subregion"
	colCountry     = "Country"
	colStatus      = "Status"
	colType        = "Installation Type"
	colProject     = "Project Name"
	colPhase       = "Phase Name"
	colCapacity    = "Capacity (MW)"
	colLatitude    = "Latitude"
	colLongitude   = "Longitude"
	colStartYear   = "Start year"
	colRetiredYear = "Retired year"
)

// Load reads the dataset tables from dir. The projects table is required;
// the summary and geographic tables are derived from it when absent.
// The three tables are read concurrently.
func Load(ctx context.Context, dir string) (*Dataset, error) {
	projectsPath, err := FindTable(dir, ProjectsTable)
	if err != nil {
		return nil, err
	}
	if projectsPath == "" {
		return nil, fmt.Errorf("no %s table (.csv, .xlsx or .json) in %s", ProjectsTable, dir)
	}
	summaryPath, err := FindTable(dir, SummaryTable)
	if err != nil {
		return nil, err
	}
	geoPath, err := FindTable(dir, GeoTable)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		projects, err := readFile(ctx, projectsPath, ReadProjects)
		ds.Projects = projects
		return err
	})
	if summaryPath != "" {
		g.Go(func() error {
			summary, err := readFile(ctx, summaryPath, ReadSummary)
			ds.Summary = summary
			return err
		})
	}
	if geoPath != "" {
		g.Go(func() error {
			geo, err := readFile(ctx, geoPath, ReadGeo)
			ds.Geo = geo
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if summaryPath == "" {
		ds.Summary = DeriveSummary(ds.Projects)
	}
	if geoPath == "" {
		ds.Geo = DeriveGeo(ds.Projects)
	}

	slog.Debug("dataset loaded",
		"dir", dir,
		"projects", len(ds.Projects),
		"summary", len(ds.Summary),
		"geo", len(ds.Geo),
	)
	return ds, nil
}

// FindTable returns the path of the first existing <dir>/<name>.<ext> for the
// supported formats, or "" if none exists.
func FindTable(dir, name string) (string, error) {
	for _, f := range formats {
		path := filepath.Join(dir, name+"."+string(f))
		if _, err := FS.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}

func readFile[T any](ctx context.Context, path string, read func(io.Reader, Format) ([]T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	rc, err := FS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer rc.Close() //nolint:errcheck // read-only file

	rows, err := read(rc, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// ReadProjects decodes a projects table.
func ReadProjects(r io.Reader, f Format) ([]Project, error) {
	t, err := readTable(r, f)
	if err != nil {
		return nil, err
	}
	cols, err := bindColumns(t.header, colRegion, colCountry, colStatus, colProject, colCapacity, colLatitude, colLongitude)
	if err != nil {
		return nil, err
	}

	projects := make([]Project, 0, len(t.rows))
	for i, row := range t.rows {
		line := t.line(i)
		if rowIsEmpty(row) {
			continue
		}
		p := Project{
			Region:           cols.get(row, colRegion),
			SubRegion:        cols.get(row, colSubRegion),
			Country:          cols.get(row, colCountry),
			Status:           cols.get(row, colStatus),
			InstallationType: NormalizeInstallationType(cols.get(row, colType)),
			ProjectName:      cols.get(row, colProject),
			PhaseName:        cols.get(row, colPhase),
			Line:             line,
		}
		if p.CapacityMW, err = parseFloat(cols.get(row, colCapacity)); err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", line, colCapacity, err)
		}
		if p.Latitude, err = parseCoord(cols.get(row, colLatitude)); err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", line, colLatitude, err)
		}
		if p.Longitude, err = parseCoord(cols.get(row, colLongitude)); err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", line, colLongitude, err)
		}
		if p.StartYear, err = parseYear(cols.get(row, colStartYear)); err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", line, colStartYear, err)
		}
		if p.RetiredYear, err = parseYear(cols.get(row, colRetiredYear)); err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", line, colRetiredYear, err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// ReadSummary decodes a pre-aggregated summary table.
func ReadSummary(r io.Reader, f Format) ([]SummaryRow, error) {
	t, err := readTable(r, f)
	if err != nil {
		return nil, err
	}
	cols, err := bindColumns(t.header, colRegion, colSubRegion, colCountry)
	if err != nil {
		return nil, err
	}
	rows := make([]SummaryRow, 0, len(t.rows))
	for i, row := range t.rows {
		if rowIsEmpty(row) {
			continue
		}
		s := SummaryRow{
			Region:           cols.get(row, colRegion),
			SubRegion:        cols.get(row, colSubRegion),
			Country:          cols.get(row, colCountry),
			Status:           cols.get(row, colStatus),
			InstallationType: NormalizeInstallationType(cols.get(row, colType)),
		}
		if s.CapacityMW, err = parseFinite(cols.get(row, colCapacity)); err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", t.line(i), colCapacity, err)
		}
		rows = append(rows, s)
	}
	return rows, nil
}

// ReadGeo decodes a geographic reference table.
func ReadGeo(r io.Reader, f Format) ([]GeoRef, error) {
	t, err := readTable(r, f)
	if err != nil {
		return nil, err
	}
	cols, err := bindColumns(t.header, colRegion)
	if err != nil {
		return nil, err
	}
	refs := make([]GeoRef, 0, len(t.rows))
	for _, row := range t.rows {
		if rowIsEmpty(row) {
			continue
		}
		refs = append(refs, GeoRef{
			Region:    cols.get(row, colRegion),
			SubRegion: cols.get(row, colSubRegion),
			Country:   cols.get(row, colCountry),
		})
	}
	return refs, nil
}

// NormalizeInstallationType folds every offshore variant ("Offshore hard
// mount", "offshore floating", ...) into "offshore".
func NormalizeInstallationType(t string) string {
	if strings.HasPrefix(strings.ToLower(t), "offshore") {
		return "offshore"
	}
	return t
}

func rowIsEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
