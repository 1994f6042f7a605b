package io

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/bargroup/pkg/errors"
)

const sampleTOML = `
title = "Regional sales"
width = 120
height = 60
bar_width = 10
placement = "legacy"
colors = ["red", "#0000ff"]
columns = ["Q1", "Q2", "Q3"]

[[rows]]
label = "north"
values = [5, 2, 0]

[[rows]]
label = "south"
values = [10, 8.5, 10]
`

func TestReadTOML(t *testing.T) {
	doc, err := ReadTOML(strings.NewReader(sampleTOML))
	if err != nil {
		t.Fatalf("ReadTOML() error = %v", err)
	}

	if doc.Title != "Regional sales" {
		t.Errorf("Title = %q, want %q", doc.Title, "Regional sales")
	}
	if doc.Width != 120 || doc.Height != 60 || doc.BarWidth != 10 {
		t.Errorf("sizes = %v/%v/%v, want 120/60/10", doc.Width, doc.Height, doc.BarWidth)
	}
	if doc.Placement != "legacy" {
		t.Errorf("Placement = %q, want legacy", doc.Placement)
	}
	want := [][]float64{{5, 2, 0}, {10, 8.5, 10}}
	if got := doc.Table.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
	if got := doc.Table.RowLabel(1); got != "south" {
		t.Errorf("RowLabel(1) = %q, want south", got)
	}
	if got := doc.Table.ColumnLabel(2); got != "Q3" {
		t.Errorf("ColumnLabel(2) = %q, want Q3", got)
	}
}

func TestReadTOMLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `width = `},
		{"unknown key", "widht = 10\n"},
		{"ragged rows", "[[rows]]\nvalues = [1, 2]\n[[rows]]\nvalues = [1]\n"},
		{"column label count", "columns = [\"a\"]\n[[rows]]\nvalues = [1, 2]\n"},
		{"negative width", "width = -1\n"},
		{"bad color", "colors = [\"chartreuse-ish\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTOML(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadTOML() expected error")
			}
		})
	}
}

func TestReadTOMLUnknownKeyCode(t *testing.T) {
	_, err := ReadTOML(strings.NewReader("colour = \"red\"\n"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("GetCode() = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestReadCSV(t *testing.T) {
	input := "series, Q1, Q2, Q3\nnorth,5,2,0\nsouth,10,8,10\n"
	doc, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	want := [][]float64{{5, 2, 0}, {10, 8, 10}}
	if got := doc.Table.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
	if got := doc.Table.ColumnLabel(0); got != "Q1" {
		t.Errorf("ColumnLabel(0) = %q, want Q1", got)
	}
	if got := doc.Table.RowLabel(0); got != "north" {
		t.Errorf("RowLabel(0) = %q, want north", got)
	}
}

func TestReadCSVEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRows int
		wantCols int
		wantErr  bool
	}{
		{name: "empty", input: "", wantRows: 0, wantCols: 0},
		{name: "header only", input: "s,a,b\n", wantRows: 0, wantCols: 0},
		{name: "comment lines", input: "# generated\ns,a\nx,1\n", wantRows: 1, wantCols: 1},
		{name: "not a number", input: "s,a\nx,abc\n", wantErr: true},
		{name: "ragged", input: "s,a,b\nx,1\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ReadCSV(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadCSV() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if doc.Table.Rows() != tt.wantRows || doc.Table.Columns() != tt.wantCols {
				t.Errorf("shape = %dx%d, want %dx%d", doc.Table.Rows(), doc.Table.Columns(), tt.wantRows, tt.wantCols)
			}
		})
	}
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "chart.toml")
	csvPath := filepath.Join(dir, "chart.CSV")
	if err := os.WriteFile(tomlPath, []byte(sampleTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(csvPath, []byte("s,a\nx,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		wantCode errors.Code
		wantRows int
	}{
		{name: "toml", path: tomlPath, wantRows: 2},
		{name: "csv upper-case extension", path: csvPath, wantRows: 1},
		{name: "missing", path: filepath.Join(dir, "nope.toml"), wantCode: errors.ErrCodeFileNotFound},
		{name: "unsupported", path: filepath.Join(dir, "chart.json"), wantCode: errors.ErrCodeUnsupported},
		{name: "empty path", path: "", wantCode: errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ImportFile(tt.path)
			if tt.wantCode != "" {
				if got := errors.GetCode(err); got != tt.wantCode {
					t.Errorf("GetCode() = %v, want %v (err = %v)", got, tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ImportFile() error = %v", err)
			}
			if got := doc.Table.Rows(); got != tt.wantRows {
				t.Errorf("Rows() = %d, want %d", got, tt.wantRows)
			}
		})
	}
}

func TestWriteTOMLRoundTrip(t *testing.T) {
	orig := Example()

	var buf bytes.Buffer
	if err := WriteTOML(orig, &buf); err != nil {
		t.Fatalf("WriteTOML() error = %v", err)
	}
	got, err := ReadTOML(&buf)
	if err != nil {
		t.Fatalf("ReadTOML() error = %v\n%s", err, buf.String())
	}

	if got.Title != orig.Title || got.Width != orig.Width || got.Placement != orig.Placement {
		t.Errorf("settings = %+v, want %+v", got, orig)
	}
	if !reflect.DeepEqual(got.Colors, orig.Colors) {
		t.Errorf("Colors = %v, want %v", got.Colors, orig.Colors)
	}
	if !reflect.DeepEqual(got.Table.Values(), orig.Table.Values()) {
		t.Errorf("Values() = %v, want %v", got.Table.Values(), orig.Table.Values())
	}
	if got.Table.ColumnLabel(1) != "Q2" || got.Table.RowLabel(0) != "north" {
		t.Errorf("labels lost in round trip")
	}
}

func TestDocumentPalette(t *testing.T) {
	doc := Example()
	doc.Colors = nil
	p, err := doc.Palette()
	if err != nil {
		t.Fatalf("Palette() error = %v", err)
	}
	if len(p) != doc.Table.Rows() {
		t.Errorf("len(Palette()) = %d, want %d", len(p), doc.Table.Rows())
	}

	doc.Colors = []string{"red", "not-a-color"}
	if _, err := doc.Palette(); err == nil {
		t.Error("Palette() expected error for invalid color")
	}
}

func TestImportExamples(t *testing.T) {
	toml, err := ImportFile("../../examples/sales.toml")
	if err != nil {
		t.Fatalf("ImportFile(toml) error: %v", err)
	}
	csv, err := ImportFile("../../examples/sales.csv")
	if err != nil {
		t.Fatalf("ImportFile(csv) error: %v", err)
	}

	if toml.Placement != "centered" || len(toml.Colors) != 3 {
		t.Errorf("toml settings = %q %v", toml.Placement, toml.Colors)
	}
	if !reflect.DeepEqual(toml.Table.Values(), csv.Table.Values()) {
		t.Errorf("example values differ:\ntoml %v\ncsv  %v", toml.Table.Values(), csv.Table.Values())
	}
	for i := range toml.Table.Columns() {
		if toml.Table.ColumnLabel(i) != csv.Table.ColumnLabel(i) {
			t.Errorf("column %d label = %q vs %q", i, toml.Table.ColumnLabel(i), csv.Table.ColumnLabel(i))
		}
	}
}
