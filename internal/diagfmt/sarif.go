package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"ocalint/internal/diag"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool         `json:"tool"`
	AutomationDetails *sarifAutomation  `json:"automationDetails,omitempty"`
	Invocations       []sarifInvocation `json:"invocations,omitempty"`
	Results           []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type sarifAutomation struct {
	GUID string `json:"guid"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

// SarifFormatter writes a SARIF 2.1.0 log with a single run.
type SarifFormatter struct {
	Opts Options
}

func (f SarifFormatter) Format(w io.Writer, ds []diag.Diagnostic) error {
	return Sarif(w, ds, f.Opts)
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0).
// Колонки остаются 0-based, как в текстовом выводе.
func Sarif(w io.Writer, ds []diag.Diagnostic, opts Options) error {
	meta := opts.Sarif
	if meta.ToolName == "" {
		meta.ToolName = "ocalint"
	}
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           meta.ToolName,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
			Rules:          sarifRules(),
		}},
		AutomationDetails: &sarifAutomation{GUID: uuid.NewString()},
		Results:           make([]sarifResult, 0, len(ds)),
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}}
	}
	for _, d := range ds {
		run.Results = append(run.Results, sarifResultFor(d, opts))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}})
}

func sarifRules() []sarifRule {
	codes := diag.Codes()
	out := make([]sarifRule, 0, len(codes))
	for _, c := range codes {
		out = append(out, sarifRule{ID: c.ID(), Name: c.Title()})
	}
	return out
}

func sarifResultFor(d diag.Diagnostic, opts Options) sarifResult {
	region := sarifRegion{
		StartLine:   d.Line,
		StartColumn: d.Column,
		EndLine:     d.EndLine,
		EndColumn:   d.EndColumn,
	}
	if region.EndLine == 0 {
		region.EndLine = d.Line
	}
	if region.EndColumn == 0 {
		region.EndColumn = d.Column
	}
	return sarifResult{
		RuleID:  d.Code.ID(),
		Level:   sarifLevel(d.Severity),
		Message: sarifMessage{Text: d.Message},
		Locations: []sarifLocation{{PhysicalLocation: sarifPhysical{
			ArtifactLocation: sarifArtifact{URI: formatPath(d.Filename, opts.PathMode, opts.BaseDir)},
			Region:           region,
		}}},
	}
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	case diag.SevInfo, diag.SevConvention, diag.SevRefactor:
		return "note"
	}
	return "warning"
}
