package diagfmt

import (
	"encoding/json"
	"io"

	"ocalint/internal/diag"
)

// JSONFormatter writes a Ruff-compatible JSON array of diagnostic records.
type JSONFormatter struct {
	Opts Options
}

func (f JSONFormatter) Format(w io.Writer, ds []diag.Diagnostic) error {
	return JSON(w, ds, f.Opts)
}

// JSON форматирует диагностики в JSON массив с отступом в два пробела.
// Пустой вход даёт `[]`, а не `null`.
func JSON(w io.Writer, ds []diag.Diagnostic, opts Options) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(records(ds, opts))
}
