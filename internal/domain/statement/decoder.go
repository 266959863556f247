package statement

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Decoder turns uploaded statement bytes into raw field records.
type Decoder struct {
	csvDateLayout string
}

func NewDecoder() *Decoder {
	return &Decoder{csvDateLayout: csvDateLayout}
}

// NewDecoderWithDateLayout overrides the delimited-format date layout used
// when validating CSV rows. Must match the normalizer's layout.
func NewDecoderWithDateLayout(layout string) *Decoder {
	if layout == "" {
		layout = csvDateLayout
	}
	return &Decoder{csvDateLayout: layout}
}

// Decode detects the format of an uploaded statement and extracts its raw
// records. The filename extension is consulted first; when absent or
// unrecognized, the content is sniffed. Returns ErrUnsupportedFormat when
// no format can be determined and MalformedInputError for structurally
// broken CSV input.
func (d *Decoder) Decode(raw []byte, filename string) ([]RawRecord, Format, error) {
	content := decodeText(raw)

	format, err := detectFormat(content, filename)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case FormatOFX:
		return decodeOFX(content), FormatOFX, nil
	default:
		records, err := d.decodeCSV(content)
		if err != nil {
			return nil, FormatCSV, err
		}
		return records, FormatCSV, nil
	}
}

// decodeText converts statement bytes to a string without ever failing.
// Banks export with inconsistent encodings, so anything that is not valid
// UTF-8 is read as Windows-1252, which accepts every byte value.
func decodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "�")
	}
	return string(decoded)
}

func detectFormat(content, filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ofx":
		return FormatOFX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	}

	// Content sniffing: the OFX block sentinel wins over anything else.
	if strings.Contains(content, "<STMTTRN>") {
		return FormatOFX, nil
	}
	if looksLikeCSV(content) {
		return FormatCSV, nil
	}
	return "", ErrUnsupportedFormat
}

// looksLikeCSV checks whether the first non-empty line resembles a
// delimited header carrying the required date column.
func looksLikeCSV(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.Contains(line, ",") {
			return false
		}
		for _, col := range strings.Split(line, ",") {
			if strings.EqualFold(strings.TrimSpace(col), "date") {
				return true
			}
		}
		return false
	}
	return false
}
