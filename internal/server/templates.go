package server

import "CohortDashboard/internal/domain"

// AllSources lists the selectable PAGER collections for the multiselect.
func (p page) AllSources() []string { return domain.EnrichmentSources }

const dashboardTemplate = `{{define "table"}}<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody>
</table>{{end}}

{{define "dashboard"}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>U-BRITE Tech Demo</title>
<style>
body { font-family: sans-serif; margin: 2em auto; max-width: 72em; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 0.25em 0.6em; text-align: left; }
fieldset { margin: 1em 0; }
img { max-width: 100%; }
</style>
</head>
<body>
<h1>U-BRITE Tech Demo</h1>
<p><em>Jelai Wang, Zongliang Yue, Abakash Samal, Dale Johnson, Patrick Dezenzio, Matt Wyatt, Christian Stackhouse, Lara Ianov, Chris Willey, Jake Chen</em></p>

{{if .ImageURL}}<p><img src="{{.ImageURL}}" alt="cohort"></p>{{end}}

<form method="GET" action="/">
<input type="hidden" name="submitted" value="1">

<h2>Query Clinical Data</h2>
<p>These data are read from U-BRITE's <em>Clinical Data Repository</em> programmatically and securely over the network via REST API call to the <em>Unified Web Services</em> (UWS) API, which returns de-identified results.</p>
{{template "table" .VM.Clinical}}

<h2>Parse DEG Results</h2>
<p>This is from a differential gene expression analysis performed with a custom DESeq2-based pipeline on RNAseq data located in the <em>Omics Data Repository</em>.</p>
<p><label><input type="checkbox" name="show_deg" value="1"{{if .VM.State.ShowDEG}} checked{{end}}> Show DEG results table</label></p>
{{if .VM.State.ShowDEG}}{{template "table" .VM.DEG}}{{end}}

<h2>Run PAGER Analysis</h2>
<p>The list of significantly differentially expressed genes ({{len .VM.Genes}} symbols) is then passed to PAGER, which offers a network-accessible REST API for performing various gene-set, network, and pathway analyses.</p>

<fieldset>
<legend>Adjust PAGER Parameters</legend>
<p><label for="sources">Available Data Sources</label><br>
<select id="sources" name="sources" multiple size="6">
{{$state := .VM.State}}{{range .AllSources}}<option value="{{.}}"{{if $state.HasSource .}} selected{{end}}>{{.}}</option>
{{end}}</select></p>
<p><label for="fdr">FDR Cutoff</label>
<input id="fdr" type="number" name="fdr" min="0" max="1" step="0.01" value="{{.VM.State.FDR}}"></p>
</fieldset>

<h3>View/Filter Results</h3>
<fieldset>
<legend>GS_SIZE Range</legend>
<p><input type="number" name="gs_min" min="{{.VM.GSFloor}}" max="{{.VM.GSCeil}}" value="{{.VM.GSLo}}">
&ndash;
<input type="number" name="gs_max" min="{{.VM.GSFloor}}" max="{{.VM.GSCeil}}" value="{{.VM.GSHi}}"></p>
</fieldset>
<p>Showing {{.VM.Enriched.Len}} of {{.VM.TotalPAGs}} enriched PAGs.</p>
{{template "table" .VM.Enriched.Table}}

<p><button type="submit">Apply</button></p>

<p><label><input type="checkbox" name="show_source" value="1"{{if .VM.State.ShowSource}} checked{{end}}> Show data source configuration</label></p>
{{if .VM.State.ShowSource}}<pre>{{.SourceNote}}</pre>{{end}}
</form>

<h3>Download Results</h3>
<p>The filtered PAGER results can now be downloaded for further review and post-processing.</p>
<p><a href="{{.Download}}" id="download-csv">Download CSV File</a> (right-click and save as &lt;some_name&gt;.csv)</p>

{{if .References}}<h3>References</h3>
<pre>{{.References}}</pre>{{end}}
</body>
</html>{{end}}`
