package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// CSVSource resolves dataset names to CSV files under Dir.
type CSVSource struct {
	Dir    string
	Logger *slog.Logger
}

func (s CSVSource) Load(name string) (Dataset, error) {
	path := name
	if !filepath.IsAbs(path) && s.Dir != "" {
		path = filepath.Join(s.Dir, name)
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Dataset{Source: External(name)}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return Dataset{Source: External(name)}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f, name, s.logger())
}

func (s CSVSource) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// ReadCSV parses a header row followed by data rows. The header must name the
// username, password and expected columns. Rows with the wrong field count or
// broken quoting are dropped with a warning; any other read error is returned.
func ReadCSV(r io.Reader, name string, logger *slog.Logger) (Dataset, error) {
	ds := Dataset{Source: External(name)}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return ds, nil
	}
	if err != nil {
		return ds, fmt.Errorf("%w: %s: reading header: %v", ErrMalformed, name, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}
	for _, required := range []string{ColUsername, ColPassword, ColExpected} {
		if !containsString(header, required) {
			return ds, fmt.Errorf("%w: %s: missing %q column", ErrMalformed, name, required)
		}
	}

	line := 1
	for {
		record, err := cr.Read()
		line++
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			logger.Warn("dropping unreadable dataset row", slog.String("dataset", name), slog.Int("line", line), slog.Any("err", err))
			continue
		}
		if err != nil {
			return ds, fmt.Errorf("reading %s: line %d: %w", name, line, err)
		}
		if len(record) != len(header) {
			logger.Warn("dropping incomplete dataset row", slog.String("dataset", name), slog.Int("line", line),
				slog.Int("fields", len(record)), slog.Int("want", len(header)))
			continue
		}
		row := Row{values: make(map[string]string, len(header))}
		for i, col := range header {
			row.set(col, strings.TrimSpace(record[i]))
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
