// Package dataset holds data-driven test rows and the sources they are read from.
package dataset

import (
	"errors"
	"slices"
	"strings"
)

// Column names every login dataset carries.
const (
	ColUsername = "username"
	ColPassword = "password"
	ColExpected = "expected"
)

const SourceInline = "inline"

var (
	ErrNotFound  = errors.New("dataset not found")
	ErrMalformed = errors.New("malformed dataset")
)

// External returns the source descriptor of a named external dataset.
func External(name string) string {
	return "external:" + name
}

// Row is an ordered mapping of column name to value.
type Row struct {
	columns []string
	values  map[string]string
}

// NewRow builds a row from alternating column, value pairs. Column names are
// lower-cased; a repeated column keeps its first position and the last value.
func NewRow(pairs ...string) Row {
	r := Row{values: make(map[string]string, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.set(pairs[i], pairs[i+1])
	}
	return r
}

func (r *Row) set(col, value string) {
	col = strings.ToLower(strings.TrimSpace(col))
	if _, ok := r.values[col]; !ok {
		r.columns = append(r.columns, col)
	}
	r.values[col] = value
}

func (r Row) Get(col string) string {
	return r.values[strings.ToLower(col)]
}

func (r Row) Has(col string) bool {
	_, ok := r.values[strings.ToLower(col)]
	return ok
}

func (r Row) Columns() []string {
	return slices.Clone(r.columns)
}

func (r Row) Username() string { return r.Get(ColUsername) }
func (r Row) Password() string { return r.Get(ColPassword) }
func (r Row) Expected() string { return r.Get(ColExpected) }

// Complete reports whether the row has the three login columns.
func (r Row) Complete() bool {
	return r.Has(ColUsername) && r.Has(ColPassword) && r.Has(ColExpected)
}

// Dataset is an ordered list of rows and where they came from.
type Dataset struct {
	Source string
	Rows   []Row
}

func (d Dataset) Empty() bool {
	return len(d.Rows) == 0
}

// Static serves datasets from memory, keyed by name.
type Static map[string]Dataset

func (s Static) Load(name string) (Dataset, error) {
	d, ok := s[name]
	if !ok {
		return Dataset{Source: External(name)}, ErrNotFound
	}
	if d.Source == "" {
		d.Source = External(name)
	}
	return d, nil
}
