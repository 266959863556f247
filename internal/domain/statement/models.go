package statement

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Format identifies the wire format of an uploaded bank statement.
type Format string

const (
	FormatOFX Format = "ofx"
	FormatCSV Format = "csv"
)

// RawRecord is one statement entry as extracted by the decoder, before any
// type parsing. Row is 1-based: the data row for CSV records, the block
// index for OFX records.
type RawRecord struct {
	Format      Format
	Row         int
	Date        string
	Description string
	Amount      string
	ExternalID  string
}

// Movement is the canonical, format-independent representation of one
// statement line. Value is signed: positive means money in, negative money
// out.
type Movement struct {
	Date        time.Time
	Description string
	Value       decimal.Decimal
	ExternalID  string
}

// ErrUnsupportedFormat means neither the filename extension nor the content
// identified a known statement format. The whole upload is rejected.
var ErrUnsupportedFormat = errors.New("unsupported statement format")

// MalformedInputError reports a structurally broken statement: required CSV
// header columns missing, or a data row that fails type parsing. Row is the
// 1-based data row when the failure is row-level, 0 otherwise.
type MalformedInputError struct {
	Row    int
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("malformed statement: row %d: %s", e.Row, e.Reason)
	}
	return "malformed statement: " + e.Reason
}
