package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windatlas/windatlas/internal/dataset"
	"github.com/windatlas/windatlas/internal/graph"
	"github.com/windatlas/windatlas/internal/session"
)

func testServer(t *testing.T) (*httptest.Server, *session.Store) {
	t.Helper()
	ds := dataset.New([]dataset.Project{
		{Region: "Europe", SubRegion: "Northern Europe", Country: "Denmark", Status: "operating", InstallationType: "offshore", ProjectName: "Horns Rev", CapacityMW: 369, Latitude: dataset.FloatOf(55.5), Longitude: dataset.FloatOf(7.7), StartYear: dataset.YearOf(2002)},
		{Region: "Europe", SubRegion: "Western Europe", Country: "Germany", Status: "construction", InstallationType: "onshore", ProjectName: "Nord", CapacityMW: 1200, Latitude: dataset.FloatOf(53.5), Longitude: dataset.FloatOf(8.1), StartYear: dataset.YearOf(2024)},
		{Region: "Asia", SubRegion: "Eastern Asia", Country: "China", Status: "operating", InstallationType: "onshore", ProjectName: "Gansu", CapacityMW: 5160, Latitude: dataset.FloatOf(40.2), Longitude: dataset.FloatOf(96.9), StartYear: dataset.YearOf(2010)},
	})
	store := session.NewStore()
	srv := httptest.NewServer(New(graph.Dashboard(ds, graph.DefaultOptions()), store, Options{}).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

type viewResponse struct {
	SessionID  string         `json:"session_id"`
	Matched    int            `json:"matched"`
	Outputs    []graph.Output `json:"outputs"`
	Capacities []struct {
		Region string `json:"region"`
		Label  string `json:"label"`
	} `json:"capacities"`
	SubRegionOptions []string `json:"sub_region_options"`
	CountryOptions   []string `json:"country_options"`
	BarChart         []struct {
		ProjectName string `json:"project_name"`
	} `json:"bar_chart"`
	State graph.State `json:"state"`
}

func decodeView(t *testing.T, resp *http.Response) viewResponse {
	t.Helper()
	defer resp.Body.Close()
	var v viewResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createSession(t *testing.T, srv *httptest.Server) viewResponse {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/sessions", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/api/sessions/", resp.Header.Get("Location")[:len("/api/sessions/")])
	return decodeView(t, resp)
}

func postEvent(t *testing.T, srv *httptest.Server, id, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/sessions/"+id+"/events", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestCreateSession(t *testing.T) {
	srv, store := testServer(t)
	v := createSession(t, srv)

	assert.NotEmpty(t, v.SessionID)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 3, v.Matched)
	assert.Len(t, v.Outputs, 8)
	assert.Equal(t, "6.729 MW", v.Capacities[0].Label)
}

func TestEventFlow(t *testing.T) {
	srv, _ := testServer(t)
	id := createSession(t, srv).SessionID

	resp := postEvent(t, srv, id, `{"input": "region", "value": "Europe"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decodeView(t, resp)
	assert.Equal(t, 2, v.Matched)
	assert.Equal(t, []string{"Northern Europe", "Western Europe"}, v.SubRegionOptions)
	assert.NotContains(t, v.Outputs, graph.OutCapacities)

	resp = postEvent(t, srv, id, `{"input": "sub_region", "value": "Western Europe"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = decodeView(t, resp)
	assert.Equal(t, []string{"Germany"}, v.CountryOptions)
	require.Len(t, v.BarChart, 1)
	assert.Equal(t, "Nord", v.BarChart[0].ProjectName)

	// State persists between requests.
	resp, err := http.Get(srv.URL + "/api/sessions/" + id)
	require.NoError(t, err)
	v = decodeView(t, resp)
	assert.Equal(t, "Western Europe", v.State.Selection.SubRegion)
	assert.Equal(t, id, v.SessionID)
}

func TestSessionsAreIndependent(t *testing.T) {
	srv, _ := testServer(t)
	a := createSession(t, srv).SessionID
	b := createSession(t, srv).SessionID

	resp := postEvent(t, srv, a, `{"input": "status", "value": ["construction"]}`)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/sessions/" + b)
	require.NoError(t, err)
	assert.Equal(t, 3, decodeView(t, resp).Matched)
}

func TestEventErrors(t *testing.T) {
	srv, _ := testServer(t)
	id := createSession(t, srv).SessionID

	tests := []struct {
		name   string
		id     string
		body   string
		status int
	}{
		{"malformed", id, `{"input":`, http.StatusBadRequest},
		{"unknown field", id, `{"input": "region", "value": "Asia", "x": 1}`, http.StatusBadRequest},
		{"unknown input", id, `{"input": "colour", "value": "red"}`, http.StatusBadRequest},
		{"bad value", id, `{"input": "years", "value": "soon"}`, http.StatusBadRequest},
		{"unknown session", "nope", `{"input": "region", "value": "Asia"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postEvent(t, srv, tt.id, tt.body)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestViewSubset(t *testing.T) {
	srv, _ := testServer(t)
	id := createSession(t, srv).SessionID

	resp, err := http.Get(srv.URL + "/api/sessions/" + id + "?outputs=map,bar_chart")
	require.NoError(t, err)
	assert.Equal(t, []graph.Output{graph.OutMap, graph.OutBarChart}, decodeView(t, resp).Outputs)

	resp, err = http.Get(srv.URL + "/api/sessions/" + id + "?outputs=nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteSession(t *testing.T) {
	srv, store := testServer(t)
	id := createSession(t, srv).SessionID

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/sessions/"+id, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Zero(t, store.Len())

	resp, err = http.Get(srv.URL + "/api/sessions/" + id)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChart(t *testing.T) {
	srv, _ := testServer(t)
	id := createSession(t, srv).SessionID

	resp, err := http.Get(srv.URL + "/api/sessions/" + id + "/chart.png")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))

	resp, err = http.Get(srv.URL + "/api/sessions/" + id + "/chart.svg")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	resp, err = http.Get(srv.URL + "/api/sessions/" + id + "/chart.gif")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChart_NoMatches(t *testing.T) {
	srv, _ := testServer(t)
	id := createSession(t, srv).SessionID
	resp := postEvent(t, srv, id, `{"input": "years", "value": [1900, 1901]}`)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/sessions/" + id + "/chart.png")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExports(t *testing.T) {
	srv, _ := testServer(t)
	id := createSession(t, srv).SessionID

	for file, want := range map[string]string{
		"view.md":   "# Wind power dashboard",
		"view.txt":  "Largest projects",
		"view.html": "<!DOCTYPE html>",
		"view.json": `"session_id"`,
	} {
		t.Run(file, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/api/sessions/" + id + "/" + file)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, string(body), want)
		})
	}

	resp, err := http.Get(srv.URL + "/api/sessions/" + id + "/view.xlsx")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(body, []byte("PK")), "xlsx is a zip archive")

	resp, err = http.Get(srv.URL + "/api/sessions/" + id + "/secrets.txt")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegions(t *testing.T) {
	srv, _ := testServer(t)
	resp, err := http.Get(srv.URL + "/api/regions")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Regions []string `json:"regions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"Total", "Europe", "Asia"}, body.Regions)
}

func TestIndex(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/?region=Asia&status=operating")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "1 project phases match")
	assert.Contains(t, string(body), `class="card info" name="region" value="Asia"`)

	resp, err = http.Get(srv.URL + "/?zoom=-1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServe_Shutdown(t *testing.T) {
	ds := dataset.New(nil)
	s := New(graph.Dashboard(ds, graph.DefaultOptions()), session.NewStore(), Options{SessionIdle: time.Minute})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/regions")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
