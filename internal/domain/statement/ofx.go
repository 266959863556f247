package statement

import (
	"regexp"
	"strings"
)

// OFX exports from banks are SGML-ish and rarely well-formed XML, so
// records are extracted with a permissive tag scan rather than an XML
// parser. Value tags have no closing tag; free-text tags run to end of
// line.
var (
	ofxBlockRe    = regexp.MustCompile(`(?s)<STMTTRN>(.*?)</STMTTRN>`)
	ofxDatePosted = regexp.MustCompile(`<DTPOSTED>(\d{8})`)
	ofxAmount     = regexp.MustCompile(`<TRNAMT>([-+0-9.]+)`)
	ofxName       = regexp.MustCompile(`<NAME>(.+)`)
	ofxFitID      = regexp.MustCompile(`<FITID>([^<\r\n]+)`)
)

// decodeOFX scans STMTTRN blocks. A block missing any of the posted date,
// amount, or name tags is dropped instead of failing the batch: live bank
// exports routinely contain partial blocks.
func decodeOFX(content string) []RawRecord {
	var records []RawRecord
	for i, match := range ofxBlockRe.FindAllStringSubmatch(content, -1) {
		block := match[1]

		date := ofxDatePosted.FindStringSubmatch(block)
		amount := ofxAmount.FindStringSubmatch(block)
		name := ofxName.FindStringSubmatch(block)
		if date == nil || amount == nil || name == nil {
			continue
		}

		rec := RawRecord{
			Format:      FormatOFX,
			Row:         i + 1,
			Date:        date[1],
			Amount:      amount[1],
			Description: strings.TrimSpace(name[1]),
		}
		if fitID := ofxFitID.FindStringSubmatch(block); fitID != nil {
			rec.ExternalID = strings.TrimSpace(fitID[1])
		}
		records = append(records, rec)
	}
	return records
}
