package output

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Wind Power Dashboard</title>
<style>
:root {
  --bg: #fff; --fg: #1a1a2e; --card-bg: #f8f9fa; --border: #dee2e6;
  --table-alt: #f1f3f5; --muted: #6c757d; --sea: #e8f1f8;
  --info: #0dcaf0; --secondary: #6c757d; --accent: #0d6efd;
}
* { box-sizing: border-box; margin: 0; padding: 0; }
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: var(--bg); color: var(--fg); line-height: 1.5; padding: 1rem; max-width: 1400px; margin: 0 auto; }
header { margin-bottom: 1.5rem; }
header h1 { font-size: 1.5rem; margin-bottom: .25rem; }
header p { color: var(--muted); font-size: .875rem; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(140px, 1fr)); gap: .75rem; margin-bottom: 1.5rem; }
.card { border: 1px solid var(--border); border-radius: 8px; padding: .75rem; text-align: center; cursor: pointer; background: var(--card-bg); color: var(--fg); font: inherit; }
.card .value { font-size: 1.25rem; font-weight: 700; display: block; }
.card .label { font-size: .75rem; text-transform: uppercase; display: block; }
.card.info { border-color: var(--info); box-shadow: inset 0 0 0 2px var(--info); }
.card.secondary .label { color: var(--secondary); }
.filters { display: flex; flex-wrap: wrap; gap: .75rem; margin-bottom: 1.5rem; align-items: flex-end; }
.filters label { display: flex; flex-direction: column; font-size: .75rem; color: var(--muted); }
.filters select, .filters input { padding: .375rem .5rem; border: 1px solid var(--border); border-radius: 4px; background: var(--card-bg); color: var(--fg); font-size: .8125rem; }
.filters input[type=number] { width: 6rem; }
.filters button { padding: .375rem .75rem; border: 1px solid var(--accent); border-radius: 4px; background: var(--accent); color: #fff; cursor: pointer; }
.panels { display: grid; grid-template-columns: 3fr 2fr; gap: 1rem; margin-bottom: 1.5rem; }
@media (max-width: 900px) { .panels { grid-template-columns: 1fr; } }
.panel { background: var(--card-bg); border: 1px solid var(--border); border-radius: 8px; padding: 1rem; }
.panel h3 { font-size: .875rem; margin-bottom: .5rem; }
.panel svg { width: 100%; height: auto; }
.map .sea { fill: var(--sea); }
.map .focus { fill: none; stroke: var(--fg); stroke-width: 1.5; }
.legend { display: flex; flex-wrap: wrap; gap: .75rem; font-size: .75rem; margin-top: .5rem; }
.swatch { display: inline-block; width: .75rem; height: .75rem; border-radius: 50%; margin-right: .25rem; vertical-align: middle; }
table { width: 100%; border-collapse: collapse; font-size: .8125rem; }
th, td { padding: .5rem .625rem; text-align: left; border-bottom: 1px solid var(--border); }
td.num, th.num { text-align: right; }
tr:nth-child(even) { background: var(--table-alt); }
.empty { color: var(--muted); font-style: italic; }
</style>
</head>
<body>
<form method="get" action="{{.Action}}">
<header>
  <h1>Wind Power Dashboard</h1>
  <p>Generated {{.GeneratedAt}} &middot; {{.Matched}} project phases match</p>
</header>

<section class="cards" id="capacities">
  {{range .Buttons}}<button type="submit" class="card {{.Style}}" name="region" value="{{.Region}}">
    <span class="value">{{if .Capacity}}{{.Capacity}}{{else}}&ndash;{{end}}</span>
    <span class="label">{{.Region}}</span>
  </button>{{end}}
</section>

<section class="filters" id="filters">
  {{if ne .Selection.Region "Total"}}<input type="hidden" name="region" value="{{.Selection.Region}}">{{end}}
  <label>Sub-region
    <select name="sub_region" onchange="this.form.submit()">
      <option value="">All</option>
      {{range .SubRegions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}
    </select>
  </label>
  <label>Country
    <select name="country" onchange="this.form.submit()">
      <option value="">All</option>
      {{range .Countries}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}
    </select>
  </label>
  <label>Status
    <select name="status" multiple size="4">
      {{range .Statuses}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}
    </select>
  </label>
  <label>Installation type
    <select name="type" multiple size="4">
      {{range .Types}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}
    </select>
  </label>
  <label>Start year from
    <input type="number" name="year_min" value="{{.YearMin}}"{{if .Bounds.Valid}} min="{{.Bounds.Min}}" max="{{.Bounds.Max}}" placeholder="{{.Bounds.Min}}"{{end}}>
  </label>
  <label>to
    <input type="number" name="year_max" value="{{.YearMax}}"{{if .Bounds.Valid}} min="{{.Bounds.Min}}" max="{{.Bounds.Max}}" placeholder="{{.Bounds.Max}}"{{end}}>
  </label>
  <label>Zoom
    <input type="number" name="zoom" value="{{.Zoom}}" min="1" max="18" step="1">
  </label>
  <button type="submit">Apply</button>
</section>
</form>

<section class="panels">
  <div class="panel" id="map">
    <h3>Project map</h3>
    {{if .MapSVG}}{{.MapSVG}}{{else}}<p class="empty">Map not computed.</p>{{end}}
    <div class="legend">{{range .Legend}}<span><span class="swatch" style="background: {{.Color}}"></span>{{.Status}}</span>{{end}}</div>
  </div>
  <div class="panel" id="ranking">
    <h3>Largest projects</h3>
    {{if .ChartSVG}}{{.ChartSVG}}{{end}}
    {{if .Ranking}}
    <table>
    <thead><tr><th class="num">#</th><th>Project</th><th>Country</th><th>Type</th><th>Status</th><th class="num">Capacity</th></tr></thead>
    <tbody>
    {{range .Ranking}}<tr>
      <td class="num">{{.Rank}}</td>
      <td><a href="{{.FocusURL}}" title="Show on map">{{.Name}}</a></td>
      <td>{{.Country}}</td><td>{{.Type}}</td>
      <td><span class="swatch" style="background: {{.Color}}"></span>{{.Status}}</td>
      <td class="num">{{.Capacity}}</td>
    </tr>{{end}}
    </tbody>
    </table>
    {{else}}<p class="empty">No projects match the current filters.</p>{{end}}
  </div>
</section>

<script type="application/json" id="view-data">{{json .View}}</script>
</body>
</html>`
