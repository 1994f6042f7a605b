package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bargroup/pkg/errors"
	"github.com/matzehuels/bargroup/pkg/series"
)

type tomlDocument struct {
	Title     string    `toml:"title,omitempty"`
	Width     float64   `toml:"width,omitempty"`
	Height    float64   `toml:"height,omitempty"`
	BarWidth  float64   `toml:"bar_width,omitempty"`
	Placement string    `toml:"placement,omitempty"`
	Colors    []string  `toml:"colors,omitempty"`
	Columns   []string  `toml:"columns,omitempty"`
	Rows      []tomlRow `toml:"rows"`
}

type tomlRow struct {
	Label  string    `toml:"label,omitempty"`
	Values []float64 `toml:"values"`
}

// ReadTOML decodes a TOML chart document from r.
//
// ReadTOML returns an INVALID_INPUT error if the TOML is malformed, contains
// unknown keys, has rows of different lengths, labels that do not match the
// table shape, or negative sizes. It does not close r.
func ReadTOML(r io.Reader) (*Document, error) {
	var raw tomlDocument
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown key %q", undecoded[0].String())
	}

	values := make([][]float64, len(raw.Rows))
	labels := make([]string, len(raw.Rows))
	labelled := false
	for i, row := range raw.Rows {
		values[i] = row.Values
		labels[i] = row.Label
		labelled = labelled || row.Label != ""
	}
	if !labelled {
		labels = nil
	}

	t, err := series.NewTable(values)
	if err != nil {
		return nil, err
	}
	if err := t.SetLabels(labels, nilIfEmpty(raw.Columns)); err != nil {
		return nil, err
	}

	doc := &Document{
		Title:     raw.Title,
		Width:     raw.Width,
		Height:    raw.Height,
		BarWidth:  raw.BarWidth,
		Placement: raw.Placement,
		Colors:    raw.Colors,
		Table:     t,
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ReadCSV decodes a CSV chart document from r. See the package
// documentation for the expected layout. It does not close r.
func ReadCSV(r io.Reader) (*Document, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode csv")
	}
	if len(records) == 0 {
		return &Document{Table: series.NewEmptyTable()}, nil
	}

	header := records[0]
	if len(header) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "csv header is empty")
	}
	columns := header[1:]

	values := make([][]float64, 0, len(records)-1)
	labels := make([]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		row := make([]float64, 0, len(rec)-1)
		for j, cell := range rec[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d column %d", line, j+2)
			}
			row = append(row, v)
		}
		labels = append(labels, rec[0])
		values = append(values, row)
	}

	if len(values) == 0 {
		return &Document{Table: series.NewEmptyTable()}, nil
	}
	t, err := series.NewTable(values)
	if err != nil {
		return nil, err
	}
	if err := t.SetLabels(labels, columns); err != nil {
		return nil, err
	}
	return &Document{Table: t}, nil
}

// ImportFile reads a chart document from path, choosing the decoder by file
// extension (".toml" or ".csv").
//
// A missing file is a FILE_NOT_FOUND error, an unknown extension is
// UNSUPPORTED, and decoding errors are those of [ReadTOML] and [ReadCSV]
// wrapped with the path.
func ImportFile(path string) (*Document, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}

	var read func(io.Reader) (*Document, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		read = ReadTOML
	case ".csv":
		read = ReadCSV
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported chart file %q (want .toml or .csv)", path)
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func validate(d *Document) error {
	for name, v := range map[string]float64{"width": d.Width, "height": d.Height, "bar_width": d.BarWidth} {
		if err := errors.ValidateSize(name, v); err != nil {
			return err
		}
	}
	if _, err := d.Palette(); err != nil {
		return err
	}
	return nil
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
