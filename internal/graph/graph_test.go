package graph

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windatlas/windatlas/internal/aggregate"
	"github.com/windatlas/windatlas/internal/dataset"
	"github.com/windatlas/windatlas/internal/filter"
)

func testDataset() *dataset.Dataset {
	return dataset.New([]dataset.Project{
		{Region: "Europe", SubRegion: "Northern Europe", Country: "Denmark", Status: "operating", InstallationType: "offshore", ProjectName: "Horns Rev", CapacityMW: 160, Latitude: dataset.FloatOf(55.4), Longitude: dataset.FloatOf(7.8), StartYear: dataset.YearOf(2002)},
		{Region: "Europe", SubRegion: "Northern Europe", Country: "Denmark", Status: "operating", InstallationType: "offshore", ProjectName: "Horns Rev", CapacityMW: 209, Latitude: dataset.FloatOf(55.6), Longitude: dataset.FloatOf(7.6), StartYear: dataset.YearOf(2009)},
		{Region: "Europe", SubRegion: "Western Europe", Country: "Germany", Status: "construction", InstallationType: "onshore", ProjectName: "Nord", CapacityMW: 1200, Latitude: dataset.FloatOf(53.5), Longitude: dataset.FloatOf(8.1), StartYear: dataset.YearOf(2024)},
		{Region: "Asia", SubRegion: "Eastern Asia", Country: "China", Status: "operating", InstallationType: "onshore", ProjectName: "Gansu", CapacityMW: 5160, Latitude: dataset.FloatOf(40.2), Longitude: dataset.FloatOf(96.9), StartYear: dataset.YearOf(2010)},
		{Region: "Asia", SubRegion: "Eastern Asia", Country: "China", Status: "announced", InstallationType: "offshore", ProjectName: "Yangjiang", CapacityMW: 1000, Latitude: dataset.FloatOf(21.3), Longitude: dataset.FloatOf(112)},
	})
}

func event(t *testing.T, in Input, v any) Event {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return Event{Input: in, Value: raw}
}

func TestDashboard_Outputs(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())
	assert.Equal(t, []Output{
		OutCapacities, OutRegionStyles, OutSubRegionOptions, OutCountryOptions,
		OutStatusOptions, OutTypeOptions, OutMap, OutBarChart,
	}, g.Outputs())
	assert.Equal(t, []string{filter.Total, "Europe", "Asia"}, g.Regions())
}

func TestAdd_DuplicatePanics(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())
	assert.Panics(t, func() { g.Add(Node{Output: OutMap}) })
}

func TestAffected(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())

	tests := []struct {
		in   Input
		want []Output
	}{
		{InRegion, []Output{OutRegionStyles, OutSubRegionOptions, OutCountryOptions, OutStatusOptions, OutTypeOptions, OutMap, OutBarChart}},
		{InSubRegion, []Output{OutCountryOptions, OutStatusOptions, OutTypeOptions, OutMap, OutBarChart}},
		{InCountry, []Output{OutStatusOptions, OutTypeOptions, OutMap, OutBarChart}},
		{InStatus, []Output{OutCapacities, OutTypeOptions, OutMap, OutBarChart}},
		{InType, []Output{OutCapacities, OutStatusOptions, OutMap, OutBarChart}},
		{InYears, []Output{OutCapacities, OutStatusOptions, OutTypeOptions, OutMap, OutBarChart}},
		{InZoom, []Output{OutMap}},
		{InFocus, []Output{OutMap}},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, g.Affected(tt.in))
		})
	}
}

func TestEvaluate_All(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())
	v, err := g.Evaluate(context.Background(), g.NewState())
	require.NoError(t, err)

	assert.Equal(t, g.Outputs(), v.Outputs)
	assert.Equal(t, 5, v.Matched)
	require.Len(t, v.Capacities, 3)
	assert.Equal(t, "7.729 MW", v.Capacities[0].Label)
	assert.Equal(t, "1.569 MW", v.Capacities[1].Label)
	assert.Equal(t, "6.160 MW", v.Capacities[2].Label)
	assert.Equal(t, aggregate.ButtonActive, v.RegionStyles[0].Color)
	assert.Equal(t, []string{"Eastern Asia", "Northern Europe", "Western Europe"}, v.SubRegionOptions)
	assert.Empty(t, v.CountryOptions)
	assert.Equal(t, []string{"announced", "construction", "operating"}, v.StatusOptions)
	assert.Equal(t, []string{"offshore", "onshore"}, v.TypeOptions)
	require.NotNil(t, v.Map)
	assert.Equal(t, aggregate.ModeClusters, v.Map.Mode)
	require.Len(t, v.BarChart, 4)
	assert.Equal(t, "Gansu", v.BarChart[3].ProjectName)
}

func TestEvaluate_Subset(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())
	v, err := g.Evaluate(context.Background(), g.NewState(), OutBarChart, OutMap)
	require.NoError(t, err)

	// Registration order, not request order.
	assert.Equal(t, []Output{OutMap, OutBarChart}, v.Outputs)
	assert.True(t, v.Has(OutMap))
	assert.False(t, v.Has(OutCapacities))
	assert.Nil(t, v.Capacities)
}

func TestEvaluate_UnknownOutput(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())
	_, err := g.Evaluate(context.Background(), g.NewState(), "nope")
	assert.ErrorIs(t, err, ErrUnknownOutput)
}

func TestEvaluate_Canceled(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Evaluate(ctx, g.NewState())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluate_CapacitiesIgnoreRegion(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())
	st := g.NewState()
	st.Selection.SelectRegion("Europe")
	st.Selection.SetStatuses([]string{"operating"})

	v, err := g.Evaluate(context.Background(), st, OutCapacities, OutBarChart)
	require.NoError(t, err)
	assert.Equal(t, "5.529 MW", v.Capacities[0].Label)
	assert.Equal(t, "369 MW", v.Capacities[1].Label)
	assert.Equal(t, "5.160 MW", v.Capacities[2].Label)

	require.Len(t, v.BarChart, 1)
	assert.Equal(t, "Horns Rev", v.BarChart[0].ProjectName)
}

func TestEvaluate_DoesNotMutateState(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())
	st := g.NewState()
	st.Selection.SetStatuses([]string{"operating"})
	before := st.Clone()

	v, err := g.Evaluate(context.Background(), st)
	require.NoError(t, err)
	v.State.Selection.Statuses[0] = "changed"
	assert.Equal(t, before, st)
}

func TestDispatch_Region(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())
	st := g.NewState()
	st.Selection.SelectSubRegion("Eastern Asia")
	st.Selection.SelectCountry("China")

	v, err := g.Dispatch(context.Background(), &st, event(t, InRegion, "Europe"))
	require.NoError(t, err)

	assert.Equal(t, "Europe", st.Selection.Region)
	assert.Empty(t, st.Selection.SubRegion)
	assert.Empty(t, st.Selection.Country)
	assert.False(t, v.Has(OutCapacities))
	assert.True(t, v.Has(OutRegionStyles))
	assert.Equal(t, []string{"Northern Europe", "Western Europe"}, v.SubRegionOptions)
	assert.Equal(t, 3, v.Matched)
}

func TestDispatch_SubRegionResetsCountry(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())
	st := g.NewState()
	st.Selection.SelectRegion("Europe")
	st.Selection.SelectSubRegion("Northern Europe")
	st.Selection.SelectCountry("Denmark")

	v, err := g.Dispatch(context.Background(), &st, event(t, InSubRegion, "Western Europe"))
	require.NoError(t, err)
	assert.Empty(t, st.Selection.Country)
	assert.Equal(t, []string{"Germany"}, v.CountryOptions)
	assert.Equal(t, 1, v.Matched)
}

func TestDispatch_InconsistentSubRegionDropped(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())
	st := g.NewState()
	_, err := g.Dispatch(context.Background(), &st, event(t, InRegion, "Asia"))
	require.NoError(t, err)

	_, err = g.Dispatch(context.Background(), &st, event(t, InSubRegion, "Northern Europe"))
	require.NoError(t, err)
	assert.Empty(t, st.Selection.SubRegion)
}

func TestDispatch_StatusAndYears(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())
	st := g.NewState()

	v, err := g.Dispatch(context.Background(), &st, event(t, InStatus, []string{"operating"}))
	require.NoError(t, err)
	assert.False(t, v.Has(OutStatusOptions), "a status change must not recompute its own options")
	assert.Equal(t, []string{"offshore", "onshore"}, v.TypeOptions)

	v, err = g.Dispatch(context.Background(), &st, event(t, InYears, []int{2005, 2012}))
	require.NoError(t, err)
	assert.Equal(t, filter.Years(2005, 2012), st.Selection.Years)
	assert.Equal(t, 2, v.Matched)

	v, err = g.Dispatch(context.Background(), &st, Event{Input: InYears, Value: json.RawMessage("null")})
	require.NoError(t, err)
	assert.False(t, st.Selection.Years.Set)
	assert.Equal(t, 3, v.Matched)
}

func TestDispatch_InvertedYearsEmptiesViews(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())
	st := g.NewState()
	v, err := g.Dispatch(context.Background(), &st, event(t, InYears, []int{2020, 2000}))
	require.NoError(t, err)

	assert.Zero(t, v.Matched)
	assert.Empty(t, v.BarChart)
	assert.Empty(t, v.Map.Markers)
	assert.Equal(t, "0 MW", v.Capacities[0].Label)
}

func TestDispatch_FocusThenZoom(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())
	st := g.NewState()

	v, err := g.Dispatch(context.Background(), &st, event(t, InFocus, "Gansu"))
	require.NoError(t, err)
	assert.Equal(t, []Output{OutMap}, v.Outputs)
	assert.InDelta(t, aggregate.FocusZoom, v.Map.Zoom, 1e-9)
	assert.Equal(t, aggregate.ModeProjects, v.Map.Mode)

	v, err = g.Dispatch(context.Background(), &st, event(t, InZoom, 2))
	require.NoError(t, err)
	assert.Empty(t, st.Viewport.Focus)
	require.NotNil(t, st.Viewport.Center)
	assert.InDelta(t, 40.2, st.Viewport.Center.Lat, 1e-9)
	assert.Equal(t, aggregate.ModeClusters, v.Map.Mode)
}

func TestDispatch_ZoomObject(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())
	st := g.NewState()
	_, err := g.Dispatch(context.Background(), &st, Event{
		Input: InZoom,
		Value: json.RawMessage(`{"zoom": 4, "center": {"lat": 1, "lon": 2}}`),
	})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, st.Viewport.Zoom, 1e-9)
	assert.Equal(t, &aggregate.LatLon{Lat: 1, Lon: 2}, st.Viewport.Center)
}

func TestDispatch_Errors(t *testing.T) {
	g := Dashboard(testDataset(), DefaultOptions())

	tests := []struct {
		name string
		ev   Event
		want error
	}{
		{"unknown input", Event{Input: "colour", Value: json.RawMessage(`"x"`)}, ErrUnknownInput},
		{"wrong type", Event{Input: InRegion, Value: json.RawMessage(`42`)}, ErrBadValue},
		{"years arity", Event{Input: InYears, Value: json.RawMessage(`[2000]`)}, ErrBadValue},
		{"zero zoom", Event{Input: InZoom, Value: json.RawMessage(`0`)}, ErrBadValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := g.NewState()
			before := st.Clone()
			_, err := g.Dispatch(context.Background(), &st, tt.ev)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, st, "state must be untouched on error")
		})
	}
}

func TestOptions_TopNAndColors(t *testing.T) {
	opts := DefaultOptions()
	opts.TopN = 2
	opts.BarColors = map[string]string{"operating": "#000001"}
	g := Dashboard(testDataset(), opts)

	v, err := g.Evaluate(context.Background(), g.NewState(), OutBarChart)
	require.NoError(t, err)
	require.Len(t, v.BarChart, 2)
	assert.Equal(t, "Nord", v.BarChart[0].ProjectName)
	assert.Equal(t, "#000001", v.BarChart[1].Color)
}

func TestNewState_InitialYears(t *testing.T) {
	opts := DefaultOptions()
	opts.InitialYears = filter.Years(2000, 2030)
	g := Dashboard(testDataset(), opts)

	v, err := g.Evaluate(context.Background(), g.NewState(), OutBarChart)
	require.NoError(t, err)
	assert.Equal(t, 4, v.Matched, "null start years fall outside an active range")
}

func TestParseYears(t *testing.T) {
	b := filter.Bounds{Min: 1990, Max: 2024, Valid: true}

	tests := []struct {
		in      string
		want    filter.YearRange
		wantErr bool
	}{
		{"", filter.YearRange{}, false},
		{"all", filter.YearRange{}, false},
		{"bounds", filter.Years(1990, 2024), false},
		{"2000-2010", filter.Years(2000, 2010), false},
		{" 2000 - 2010 ", filter.Years(2000, 2010), false},
		{"2000", filter.YearRange{}, true},
		{"abc-2010", filter.YearRange{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseYears(tt.in, b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
