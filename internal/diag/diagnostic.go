package diag

import "fmt"

// Position is a parser location: 1-based line, 0-based byte column.
// EndLine/EndColumn are zero when the node carried no end position.
type Position struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// NoPosition is used for nodes without location metadata.
var NoPosition = Position{Line: 1, Column: 0}

type Diagnostic struct {
	Code         Code
	Message      string
	Filename     string
	Line         int
	Column       int
	EndLine      int
	EndColumn    int
	Severity     Severity
	FixAvailable bool
}

func New(code Code, sev Severity, filename string, pos Position, msg string) Diagnostic {
	if pos.Line < 1 {
		pos = NoPosition
	}
	return Diagnostic{
		Code:      code,
		Message:   msg,
		Filename:  filename,
		Line:      pos.Line,
		Column:    pos.Column,
		EndLine:   pos.EndLine,
		EndColumn: pos.EndColumn,
		Severity:  sev,
	}
}

// String renders the Ruff-compatible one-line form.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %s", d.Filename, d.Line, d.Column, d.Code.ID(), d.Message)
}

// HasEnd reports whether an end position was recorded.
func (d Diagnostic) HasEnd() bool {
	return d.EndLine != 0 || d.EndColumn != 0
}

// Location is a row/column pair in serialized output.
type Location struct {
	Row    int `json:"row" msgpack:"row" yaml:"row"`
	Column int `json:"column" msgpack:"column" yaml:"column"`
}

// FixInfo describes autofix availability.
type FixInfo struct {
	Available bool `json:"available" msgpack:"available" yaml:"available"`
}

// Record is the stable machine-readable form of a Diagnostic.
type Record struct {
	Code        string    `json:"code" msgpack:"code" yaml:"code"`
	Message     string    `json:"message" msgpack:"message" yaml:"message"`
	Filename    string    `json:"filename" msgpack:"filename" yaml:"filename"`
	Location    Location  `json:"location" msgpack:"location" yaml:"location"`
	EndLocation *Location `json:"end_location" msgpack:"end_location" yaml:"end_location"`
	Level       string    `json:"level" msgpack:"level" yaml:"level"`
	Fix         FixInfo   `json:"fix" msgpack:"fix" yaml:"fix"`
}

func (d Diagnostic) Record() Record {
	r := Record{
		Code:     d.Code.ID(),
		Message:  d.Message,
		Filename: d.Filename,
		Location: Location{Row: d.Line, Column: d.Column},
		Level:    d.Severity.String(),
		Fix:      FixInfo{Available: d.FixAvailable},
	}
	if d.HasEnd() {
		end := Location{Row: d.EndLine, Column: d.EndColumn}
		if end.Row == 0 {
			end.Row = d.Line
		}
		if end.Column == 0 {
			end.Column = d.Column
		}
		r.EndLocation = &end
	}
	return r
}
