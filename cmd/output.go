package cmd

import (
	"encoding/json"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"

	"github.com/smoliakoff/rload/errext"
	"github.com/smoliakoff/rload/errext/exitcodes"
)

// writeJSON marshals v as indented JSON to stdout, or to path when path is
// non-empty — gzip-compressed when path ends in ".gz" (klauspost/compress
// is a drop-in for compress/gzip with a faster implementation).
func writeJSON(fs afero.Fs, stdout interface{ Write([]byte) (int, error) }, path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.Internal)
	}
	data = append(data, '\n')

	if path == "" {
		_, err := stdout.Write(data)
		return err
	}

	f, err := fs.Create(path)
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.IOError)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		gw := gzip.NewWriter(f)
		if _, err := gw.Write(data); err != nil {
			return errext.WithExitCodeIfNone(err, exitcodes.IOError)
		}
		return errext.WithExitCodeIfNone(gw.Close(), exitcodes.IOError)
	}

	_, err = f.Write(data)
	return errext.WithExitCodeIfNone(err, exitcodes.IOError)
}
