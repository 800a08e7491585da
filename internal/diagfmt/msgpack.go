package diagfmt

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"ocalint/internal/diag"
)

// MsgpackFormatter writes the same records as the JSON formatter as a
// single MessagePack array.
type MsgpackFormatter struct {
	Opts Options
}

func (f MsgpackFormatter) Format(w io.Writer, ds []diag.Diagnostic) error {
	return Msgpack(w, ds, f.Opts)
}

func Msgpack(w io.Writer, ds []diag.Diagnostic, opts Options) error {
	if err := msgpack.NewEncoder(w).Encode(records(ds, opts)); err != nil {
		return fmt.Errorf("encode msgpack: %w", err)
	}
	return nil
}

// DecodeMsgpack reads records written by Msgpack.
func DecodeMsgpack(r io.Reader) ([]diag.Record, error) {
	var out []diag.Record
	if err := msgpack.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode msgpack: %w", err)
	}
	return out, nil
}
