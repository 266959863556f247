package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

const (
	csvColDate        = "date"
	csvColDescription = "description"
	csvColValue       = "value"
	csvColExternalID  = "external_id"
)

var csvRequiredColumns = []string{csvColDate, csvColDescription, csvColValue}

// decodeCSV reads a header-driven delimited statement. The header row
// names the fields; extra columns are ignored. Unlike the OFX scan, a row
// that fails date or value parsing rejects the whole file: a partially
// typed row almost always means a corrupted or wrong-schema export.
func (d *Decoder) decodeCSV(content string) ([]RawRecord, error) {
	cr := csv.NewReader(strings.NewReader(content))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &MalformedInputError{Reason: "empty file"}
	}
	if err != nil {
		return nil, &MalformedInputError{Reason: err.Error()}
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range csvRequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &MalformedInputError{Reason: fmt.Sprintf("missing required column %q", col)}
		}
	}

	field := func(rec []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var records []RawRecord
	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, &MalformedInputError{Row: row, Reason: err.Error()}
		}

		r := RawRecord{
			Format:      FormatCSV,
			Row:         row,
			Date:        field(rec, csvColDate),
			Description: field(rec, csvColDescription),
			Amount:      field(rec, csvColValue),
			ExternalID:  field(rec, csvColExternalID),
		}
		if _, err := parseDate(r.Date, d.csvDateLayout); err != nil {
			return nil, &MalformedInputError{Row: row, Reason: fmt.Sprintf("invalid date %q", r.Date)}
		}
		if _, err := parseAmount(r.Amount); err != nil {
			return nil, &MalformedInputError{Row: row, Reason: fmt.Sprintf("invalid value %q", r.Amount)}
		}
		records = append(records, r)
	}
	return records, nil
}
