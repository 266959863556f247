package statement

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// ofxDateLayout is the fixed 8-digit posted-date encoding.
	ofxDateLayout = "20060102"
	// csvDateLayout is the default delimited-statement date encoding.
	csvDateLayout = "2006-01-02"
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
)

// Normalizer converts decoder records into canonical Movements. It is the
// single place where the sign convention (positive inflow, negative
// outflow) is enforced; both supported formats already report signs
// natively, so a future format with inverted signs would be flipped here
// without the matcher ever knowing.
type Normalizer struct {
	csvDateLayout string
}

func NewNormalizer() *Normalizer {
	return &Normalizer{csvDateLayout: csvDateLayout}
}

// NewNormalizerWithDateLayout overrides the delimited-format date layout.
func NewNormalizerWithDateLayout(layout string) *Normalizer {
	if layout == "" {
		layout = csvDateLayout
	}
	return &Normalizer{csvDateLayout: layout}
}

func (n *Normalizer) Normalize(rec RawRecord) (Movement, error) {
	layout := n.csvDateLayout
	if rec.Format == FormatOFX {
		layout = ofxDateLayout
	}

	date, err := parseDate(rec.Date, layout)
	if err != nil {
		return Movement{}, fmt.Errorf("%w: %q", ErrInvalidDate, rec.Date)
	}

	value, err := parseAmount(rec.Amount)
	if err != nil {
		return Movement{}, fmt.Errorf("%w: %q", ErrInvalidAmount, rec.Amount)
	}

	description := strings.TrimSpace(rec.Description)
	if description == "" {
		return Movement{}, ErrEmptyDescription
	}

	return Movement{
		Date:        date,
		Description: description,
		Value:       value,
		ExternalID:  strings.TrimSpace(rec.ExternalID),
	}, nil
}

func parseDate(s, layout string) (time.Time, error) {
	return time.Parse(layout, strings.TrimSpace(s))
}

// parseAmount accepts plain decimal notation with an optional leading
// sign. Thousands separators are rejected on purpose: a grouped number in
// a statement column usually signals a locale mismatch, not a valid
// amount.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, errors.New("empty amount")
	}
	return decimal.NewFromString(s)
}
