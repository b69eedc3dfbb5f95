package pipeline

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/chartlayout/pkg/errors"
)

// EncodeResults writes results as indented JSON. A single result is written as
// an object, several as an array, mirroring the request document.
func EncodeResults(w io.Writer, results []*Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	var v any = results
	if len(results) == 1 {
		v = results[0]
	}
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode results")
	}
	return nil
}

// WriteResultFile writes results to path atomically. The path "-" writes to
// standard output.
func WriteResultFile(path string, results []*Result) error {
	if path == "-" {
		return EncodeResults(os.Stdout, results)
	}
	if err := errors.ValidatePath(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".chartlayout-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeResults(tmp, results); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
