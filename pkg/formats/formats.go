// Package formats provides readers and writers for collision bound files:
// BND (text), BBND (binary) and TER (grid-partitioned terrain).
package formats

import (
	"bufio"
	"io"
	"os"

	"github.com/Faultbox/bndtool/pkg/bound"
)

// File extensions for the three bound formats.
const (
	ExtBND  = ".bnd"
	ExtBBND = ".bbnd"
	ExtTER  = ".ter"
)

// writeFile creates path and streams write into it. Data checks belong
// before the call, so every error here is an I/O error. A failure part way
// leaves a truncated file behind; callers must discard it.
func writeFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &bound.IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &bound.IOError{Op: "close", Path: path, Err: cerr}
		}
	}()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return &bound.IOError{Op: "write", Path: path, Err: err}
	}
	if err := bw.Flush(); err != nil {
		return &bound.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
