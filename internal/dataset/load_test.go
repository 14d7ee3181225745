// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package dataset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/windatlas/windatlas/internal/testable"
)

func withFS(t *testing.T, fs testable.FileSystem) {
	t.Helper()
	orig := FS
	FS = fs
	t.Cleanup(func() { FS = orig })
}

func TestLoad_Testdata(t *testing.T) {
	ds, err := Load(context.Background(), "testdata")
	require.NoError(t, err)

	require.Len(t, ds.Projects, 8)
	assert.Len(t, ds.Geo, 5)
	// No summary file on disk: derived from projects.
	assert.NotEmpty(t, ds.Summary)

	horns := ds.Projects[0]
	assert.Equal(t, "Europe", horns.Region)
	assert.Equal(t, "Northern Europe", horns.SubRegion)
	assert.Equal(t, "offshore", horns.InstallationType)
	assert.Equal(t, "Phase 1", horns.PhaseName)
	assert.InDelta(t, 160.0, horns.CapacityMW, 0.001)
	assert.Equal(t, YearOf(2002), horns.StartYear)
	assert.False(t, horns.RetiredYear.Valid)

	yangjiang := ds.Projects[5]
	assert.Equal(t, "offshore", yangjiang.InstallationType)
	assert.False(t, yangjiang.StartYear.Valid)

	muehle := ds.Projects[3]
	assert.Equal(t, YearOf(2019), muehle.RetiredYear)
}

func TestLoad_MissingProjects(t *testing.T) {
	withFS(t, &testable.MockFileSystem{Files: map[string][]byte{}})

	_, err := Load(context.Background(), "/data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no projects table")
}

func TestLoad_PrefersCSVOverJSON(t *testing.T) {
	mock := &testable.MockFileSystem{Files: map[string][]byte{
		filepath.Join("/data", "projects.csv"): []byte(
			"Region,Country,Status,Project Name,Capacity (MW),Latitude,Longitude\nEurope,Spain,operating,A,10,1,2\n"),
		filepath.Join("/data", "projects.json"): []byte(`[]`),
	}}
	withFS(t, mock)

	ds, err := Load(context.Background(), "/data")
	require.NoError(t, err)
	require.Len(t, ds.Projects, 1)
	assert.Equal(t, "Spain", ds.Projects[0].Country)
}

func TestLoad_SummaryFromDisk(t *testing.T) {
	mock := &testable.MockFileSystem{Files: map[string][]byte{
		filepath.Join("/data", "projects.json"): []byte(`[
			{"Region":"Europe","Subregion":"Southern Europe","Country":"Spain","Status":"operating",
			 "Project Name":"A","Capacity (MW)":10,"Latitude":40.1,"Longitude":-3.2,"Start year":2001.0,"Retired year":null}
		]`),
		filepath.Join("/data", "summary.csv"): []byte(
			"Region,Subregion,Country,Capacity (MW)\nEurope,Southern Europe,Portugal,55\n"),
	}}
	withFS(t, mock)

	ds, err := Load(context.Background(), "/data")
	require.NoError(t, err)
	require.Len(t, ds.Summary, 1)
	assert.Equal(t, "Portugal", ds.Summary[0].Country)
	require.Len(t, ds.Projects, 1)
	assert.Equal(t, YearOf(2001), ds.Projects[0].StartYear)
	assert.False(t, ds.Projects[0].RetiredYear.Valid)
	// Geo derived from projects.
	assert.Equal(t, []GeoRef{{Region: "Europe", SubRegion: "Southern Europe", Country: "Spain"}}, ds.Geo)
}

func TestLoad_OpenError(t *testing.T) {
	mock := &testable.MockFileSystem{
		Files: map[string][]byte{filepath.Join("/data", "projects.csv"): nil},
		OpenFn: func(string) (io.ReadCloser, error) {
			return nil, errors.New("permission denied")
		},
	}
	withFS(t, mock)

	_, err := Load(context.Background(), "/data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestReadProjects_MissingColumn(t *testing.T) {
	_, err := ReadProjects(strings.NewReader("Region,Country\nEurope,Spain\n"), FormatCSV)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), "Capacity (MW)")
}

func TestReadProjects_BadNumber(t *testing.T) {
	in := "Region,Country,Status,Project Name,Capacity (MW),Latitude,Longitude\nEurope,Spain,operating,A,lots,1,2\n"
	_, err := ReadProjects(strings.NewReader(in), FormatCSV)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestReadProjects_BlankCoordinates(t *testing.T) {
	in := "Region,Country,Status,Project Name,Capacity (MW),Latitude,Longitude\n" +
		"Europe,Denmark,operating,A,10,56,10\n" +
		"Europe,Denmark,operating,B,10,,\n" +
		"Europe,Denmark,operating,C,10,nan,10\n"
	projects, err := ReadProjects(strings.NewReader(in), FormatCSV)
	require.NoError(t, err)
	require.Len(t, projects, 3)

	assert.Equal(t, FloatOf(56), projects[0].Latitude)
	assert.True(t, projects[0].Located())
	assert.False(t, projects[1].Latitude.Valid)
	assert.False(t, projects[1].Longitude.Valid)
	assert.False(t, projects[1].Located())
	assert.False(t, projects[2].Located(), "one missing coordinate leaves the row unlocated")
	assert.Equal(t, FloatOf(10), projects[2].Longitude)
}

func TestReadProjects_NonFiniteCapacityKept(t *testing.T) {
	in := "Region,Country,Status,Project Name,Capacity (MW),Latitude,Longitude\n" +
		"Europe,Spain,operating,A,inf,1,2\n" +
		"Europe,Spain,operating,B,NaN,1,2\n" +
		"Europe,Spain,operating,C,,1,2\n"
	projects, err := ReadProjects(strings.NewReader(in), FormatCSV)
	require.NoError(t, err)
	require.Len(t, projects, 3)

	assert.True(t, math.IsInf(projects[0].CapacityMW, 1))
	assert.True(t, math.IsNaN(projects[1].CapacityMW))
	assert.Zero(t, projects[2].CapacityMW)
	for _, p := range projects {
		assert.Zero(t, p.MW(), p.ProjectName)
	}
}

func TestReadSummary_NonFiniteCapacity(t *testing.T) {
	in := "Region,Subregion,Country,Capacity (MW)\nEurope,Southern Europe,Spain,inf\n"
	_, err := ReadSummary(strings.NewReader(in), FormatCSV)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "not a finite number")
}

func TestReadProjects_SourceLines(t *testing.T) {
	in := "Region,Country,Status,Project Name,Capacity (MW),Latitude,Longitude\n" +
		"Europe,Spain,operating,A,1,1,2\n" +
		"\n" +
		",,,,,,\n" +
		"Europe,Spain,operating,B,1,1,2\n"
	projects, err := ReadProjects(strings.NewReader(in), FormatCSV)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, 2, projects[0].Line)
	assert.Equal(t, 5, projects[1].Line)

	_, err = ReadProjects(strings.NewReader(in+"\nEurope,Spain,operating,C,lots,1,2\n"), FormatCSV)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 7")

	js := `[{"Region":"Europe","Country":"Spain","Status":"operating","Project Name":"A","Capacity (MW)":1,"Latitude":null,"Longitude":2}]`
	projects, err = ReadProjects(strings.NewReader(js), FormatJSON)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, 1, projects[0].Line)
	assert.False(t, projects[0].Latitude.Valid)
}

func TestReadProjects_HeaderVariants(t *testing.T) {
	in := "region,sub_region,country,status,installation_type,project_name,capacity_mw,latitude,longitude,start_year\n" +
		"Asia,Eastern Asia,Japan,operating,Offshore,Kitakyushu,220,33.9,130.8,nan\n\n"
	projects, err := ReadProjects(strings.NewReader(in), FormatCSV)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Eastern Asia", projects[0].SubRegion)
	assert.Equal(t, "offshore", projects[0].InstallationType)
	assert.False(t, projects[0].StartYear.Valid)
}

func TestReadProjects_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Region", "Subregion", "Country", "Status", "Installation Type", "Project Name", "Capacity (MW)", "Latitude", "Longitude", "Start year"},
		{"Europe", "Northern Europe", "United Kingdom", "operating", "offshore hard mount", "Hornsea", 1218, 53.88, 1.79, 2019},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	projects, err := ReadProjects(&buf, FormatXLSX)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Hornsea", projects[0].ProjectName)
	assert.Equal(t, "offshore", projects[0].InstallationType)
	assert.InDelta(t, 1218.0, projects[0].CapacityMW, 0.001)
	assert.Equal(t, YearOf(2019), projects[0].StartYear)
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("x/projects.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = FormatFor("projects.parquet")
	require.Error(t, err)
}

func TestNormalizeInstallationType(t *testing.T) {
	assert.Equal(t, "offshore", NormalizeInstallationType("Offshore floating"))
	assert.Equal(t, "onshore", NormalizeInstallationType("onshore"))
	assert.Equal(t, "", NormalizeInstallationType(""))
}

func TestNullYear_JSON(t *testing.T) {
	b, err := YearOf(2010).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "2010", string(b))

	b, err = NullYear{}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	var y NullYear
	require.NoError(t, y.UnmarshalJSON([]byte("1999")))
	assert.Equal(t, YearOf(1999), y)
	require.NoError(t, y.UnmarshalJSON([]byte("null")))
	assert.False(t, y.Valid)
}

func TestNullFloat_JSON(t *testing.T) {
	b, err := FloatOf(55.5).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "55.5", string(b))

	b, err = NullFloat{}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	var f NullFloat
	require.NoError(t, f.UnmarshalJSON([]byte("-3.25")))
	assert.Equal(t, FloatOf(-3.25), f)
	require.NoError(t, f.UnmarshalJSON([]byte("null")))
	assert.False(t, f.Valid)
}

func TestMean_SkipsAbsentValues(t *testing.T) {
	var m Mean
	assert.False(t, m.Value().Valid)

	m.Add(FloatOf(56))
	m.Add(NullFloat{})
	m.Add(FloatOf(58))
	assert.Equal(t, FloatOf(57), m.Value())
}

func TestDeriveSummary(t *testing.T) {
	projects := []Project{
		{Region: "Europe", SubRegion: "S", Country: "Spain", Status: "operating", InstallationType: "onshore", CapacityMW: 10},
		{Region: "Europe", SubRegion: "S", Country: "Spain", Status: "operating", InstallationType: "onshore", CapacityMW: 5},
		{Region: "Europe", SubRegion: "S", Country: "Spain", Status: "retired", InstallationType: "onshore", CapacityMW: 1},
	}
	rows := DeriveSummary(projects)
	require.Len(t, rows, 2)
	assert.InDelta(t, 15.0, rows[0].CapacityMW, 0.001)
	assert.Equal(t, "retired", rows[1].Status)

	geo := DeriveGeo(projects)
	assert.Len(t, geo, 1)
}
