package geom

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Columns names the record fields in a CSV header. Matching is
// case-insensitive and ignores surrounding spaces.
type Columns struct {
	ID        string
	Name      string
	Value     string
	Delimiter rune
}

// ReadRecords reads a CSV with a header row. Rows whose value column does not
// parse as a finite number are kept with Valid=false; rows too short to carry an id are skipped.
func ReadRecords(r io.Reader, cols Columns) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	if cols.Delimiter != 0 {
		cr.Comma = cols.Delimiter
	}
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("geom: read csv: %w", err)
	}
	if len(recs) == 0 {
		return nil, errors.New("geom: empty csv")
	}

	header := recs[0]
	find := func(name string) int {
		want := strings.ToLower(strings.TrimSpace(name))
		for i, h := range header {
			if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) == want {
				return i
			}
		}
		return -1
	}
	idxID, idxName, idxValue := find(cols.ID), find(cols.Name), find(cols.Value)
	switch {
	case idxID == -1:
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, cols.ID)
	case idxValue == -1:
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, cols.Value)
	}

	out := make([]Record, 0, len(recs)-1)
	for _, row := range recs[1:] {
		if idxID >= len(row) {
			continue
		}
		rec := Record{ID: strings.TrimSpace(row[idxID])}
		if rec.ID == "" {
			continue
		}
		if idxName >= 0 && idxName < len(row) {
			rec.Name = strings.TrimSpace(row[idxName])
		}
		if idxValue < len(row) {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[idxValue]), 64)
			if err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
				rec.Value, rec.Valid = v, true
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// Invalid counts records without a usable value.
func Invalid(rs []Record) int {
	n := 0
	for _, r := range rs {
		if !r.Valid {
			n++
		}
	}
	return n
}
