package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// ReadCSV reads a headed CSV into a Frame with per-column type inference:
// a column whose every non-empty cell parses as a number becomes a float
// column (empty cells as NaN), anything else stays a string column. A column
// with no values at all loads as float NaN, like the empty legacy bathrooms
// column in the source exports.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	cells := make([][]string, len(header))
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}
		for i := range header {
			v := ""
			if i < len(rec) {
				v = rec[i]
			}
			cells[i] = append(cells[i], v)
		}
	}

	frame := NewFrame()
	for i, name := range header {
		if numeric(cells[i]) {
			floats := make([]float64, len(cells[i]))
			for j, s := range cells[i] {
				if s == "" {
					floats[j] = math.NaN()
					continue
				}
				floats[j], _ = strconv.ParseFloat(s, 64)
			}
			if err := frame.SetFloats(name, floats); err != nil {
				return nil, err
			}
			continue
		}
		if err := frame.SetStrings(name, cells[i]); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// ReadCSVFile reads a CSV file from disk.
func ReadCSVFile(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// numeric reports whether every non-empty cell parses as a float.
func numeric(cells []string) bool {
	for _, s := range cells {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return false
		}
	}
	return true
}

// WriteCSV writes the frame with its header row. Missing cells (NaN, "")
// are written empty; an index, when present, leads each row under the
// listing_url header.
func WriteCSV(w io.Writer, f *Frame) error {
	cw := csv.NewWriter(w)

	names := f.Columns()
	header := names
	if f.Index() != nil {
		header = append([]string{"listing_url"}, names...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := 0; i < f.NumRows(); i++ {
		rec := make([]string, 0, len(header))
		if f.Index() != nil {
			rec = append(rec, f.Index()[i])
		}
		for _, name := range names {
			col := f.Col(name)
			if col.Kind == String {
				rec = append(rec, col.Str[i])
				continue
			}
			v := col.Floats[i]
			if math.IsNaN(v) {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
